// Package dsr provides the data-subject-request engine: creation,
// single-transition DPO processing, and work-queue listings for GDPR
// requests attached to cases.
package dsr

import (
	"time"

	"github.com/justichain/justichain/internal/registry"
)

// RequestType classifies a data-subject request under GDPR.
type RequestType string

const (
	TypeAccess        RequestType = "ACCESS"
	TypeRectification RequestType = "RECTIFICATION"
	TypeErasure       RequestType = "ERASURE"
	TypePortability   RequestType = "PORTABILITY"
	TypeProcessing    RequestType = "PROCESSING"
)

// Valid reports whether the request type is a member of the closed set.
func (t RequestType) Valid() bool {
	switch t {
	case TypeAccess, TypeRectification, TypeErasure, TypePortability, TypeProcessing:
		return true
	}
	return false
}

// Label returns the human-readable request type label.
func (t RequestType) Label() string {
	switch t {
	case TypeAccess:
		return "Access"
	case TypeRectification:
		return "Rectification"
	case TypeErasure:
		return "Erasure"
	case TypePortability:
		return "Portability"
	case TypeProcessing:
		return "Processing"
	}
	return "Unknown"
}

// RequestStatus is a request's processing state. A request leaves
// Pending exactly once and never changes again.
type RequestStatus string

const (
	StatusPending   RequestStatus = "PENDING"
	StatusApproved  RequestStatus = "APPROVED"
	StatusRejected  RequestStatus = "REJECTED"
	StatusCompleted RequestStatus = "COMPLETED"
)

// ValidResolution reports whether the status is a legal resolution of
// a pending request.
func (s RequestStatus) ValidResolution() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// Label returns the human-readable status label.
func (s RequestStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	case StatusCompleted:
		return "Completed"
	}
	return "Unknown"
}

// Request is a data-subject request. ResponseDeadline is fixed at
// creation and never recomputed.
type Request struct {
	ID                 int64
	CaseID             int64
	Requester          registry.Identity
	RequestType        RequestType
	Status             RequestStatus
	RequestDate        time.Time
	ResponseDeadline   time.Time
	RequestDetailsHash registry.Digest
	ResponseHash       registry.Digest
}

// Overdue reports whether the request is past its deadline while still
// pending. Derived only; overdue requests are never auto-escalated.
func (r *Request) Overdue(now time.Time) bool {
	return r.Status == StatusPending && now.After(r.ResponseDeadline)
}
