// Package caseregistry provides the case registry: case lifecycle,
// judge assignment, hearing scheduling, and retention-driven archival.
package caseregistry

import (
	"time"

	"github.com/justichain/justichain/internal/registry"
)

// CaseStatus is a case lifecycle status. Transitions are forward-only
// in the order Registered < InProgress < Decided < Closed < Archived;
// Archived is terminal and only reachable via the archival sweep.
type CaseStatus string

const (
	StatusRegistered CaseStatus = "REGISTERED"
	StatusInProgress CaseStatus = "IN_PROGRESS"
	StatusDecided    CaseStatus = "DECIDED"
	StatusClosed     CaseStatus = "CLOSED"
	StatusArchived   CaseStatus = "ARCHIVED"
)

// statusRank orders the lifecycle. Unknown statuses rank below all
// valid ones so they never pass the forward-only check.
var statusRank = map[CaseStatus]int{
	StatusRegistered: 0,
	StatusInProgress: 1,
	StatusDecided:    2,
	StatusClosed:     3,
	StatusArchived:   4,
}

// Rank returns the lifecycle position of the status, or -1 for an
// unknown status.
func (s CaseStatus) Rank() int {
	rank, ok := statusRank[s]
	if !ok {
		return -1
	}
	return rank
}

// Valid reports whether the status is a member of the lifecycle.
func (s CaseStatus) Valid() bool {
	return s.Rank() >= 0
}

// Label returns the human-readable status label.
func (s CaseStatus) Label() string {
	switch s {
	case StatusRegistered:
		return "Registered"
	case StatusInProgress:
		return "In Progress"
	case StatusDecided:
		return "Decided"
	case StatusClosed:
		return "Closed"
	case StatusArchived:
		return "Archived"
	}
	return "Unknown"
}

// CaseType classifies a case.
type CaseType string

const (
	TypeGeneral     CaseType = "GENERAL"
	TypeGDPR        CaseType = "GDPR"
	TypeDataBreach  CaseType = "DATA_BREACH"
	TypeCrossBorder CaseType = "CROSS_BORDER"
)

// Valid reports whether the case type is a member of the closed set.
func (t CaseType) Valid() bool {
	switch t {
	case TypeGeneral, TypeGDPR, TypeDataBreach, TypeCrossBorder:
		return true
	}
	return false
}

// Label returns the human-readable case type label.
func (t CaseType) Label() string {
	switch t {
	case TypeGeneral:
		return "General"
	case TypeGDPR:
		return "GDPR"
	case TypeDataBreach:
		return "Data Breach"
	case TypeCrossBorder:
		return "Cross Border"
	}
	return "Unknown"
}

// IsGDPRRelevant reports whether cases of this type fall under GDPR
// processing (everything except General).
func (t CaseType) IsGDPRRelevant() bool {
	return t.Valid() && t != TypeGeneral
}

// Case is a registered legal case. Content fields hold digests of the
// underlying plaintext; the registry never stores case content in
// plain form.
type Case struct {
	ID                 int64
	ContentHash        registry.Digest
	ClassificationTag  registry.Digest
	CaseType           CaseType
	Status             CaseStatus
	IsGDPRCase         bool
	RequiresEncryption bool
	FilingDate         time.Time
	LastUpdated        time.Time
	AssignedJudge      registry.Identity
	NextHearingDate    time.Time
	RetentionPeriod    time.Duration
	LegalBasisHash     registry.Digest
}

// Expired reports whether the case's retention period has elapsed at
// the given time.
func (c *Case) Expired(now time.Time) bool {
	return now.Sub(c.FilingDate) > c.RetentionPeriod
}

// ROPAExport is the per-case read-only compliance projection. It
// deliberately omits the judge-only party fields so a DPO can audit
// without case-party access rights.
type ROPAExport struct {
	CaseID            int64
	CaseHash          registry.Digest
	ClassificationTag registry.Digest
	CaseType          CaseType
	LegalBasisHash    registry.Digest
	RetentionPeriod   time.Duration
	FilingDate        time.Time
	IsGDPRCase        bool
}
