package models

// RegisterCaseRequest is a request to register a new case. Digest
// fields carry 0x-prefixed hex; retention is expressed in days on the
// wire and converted to seconds internally.
type RegisterCaseRequest struct {
	ContentHash        string `json:"contentHash"`
	DataClassification string `json:"dataClassification"`
	CaseType           string `json:"caseType"`
	RequiresEncryption bool   `json:"requiresEncryption"`
	RetentionDays      int64  `json:"retentionDays"`
	LegalBasisHash     string `json:"legalBasisHash"`
}

// AssignJudgeRequest is a request to assign a judge to a case.
type AssignJudgeRequest struct {
	Judge string `json:"judge"`
}

// ScheduleHearingRequest is a request to schedule the next hearing.
// HearingDate is Unix-epoch seconds.
type ScheduleHearingRequest struct {
	HearingDate int64 `json:"hearingDate"`
}

// UpdateCaseStatusRequest is a request to advance a case's status.
type UpdateCaseStatusRequest struct {
	Status string `json:"status"`
}

// CaseResponse is the basic projection of a case, readable by any
// authenticated caller. Timestamps are Unix-epoch seconds with 0
// meaning "not set".
type CaseResponse struct {
	CaseID             int64  `json:"caseId"`
	ContentHash        string `json:"contentHash"`
	DataClassification string `json:"dataClassification"`
	CaseType           string `json:"caseType"`
	CaseTypeLabel      string `json:"caseTypeLabel"`
	Status             string `json:"status"`
	StatusLabel        string `json:"statusLabel"`
	IsGDPRCase         bool   `json:"isGdprCase"`
	RequiresEncryption bool   `json:"requiresEncryption"`
	FilingDate         int64  `json:"filingDate"`
	LastUpdated        int64  `json:"lastUpdated"`
	LegalBasisHash     string `json:"legalBasisHash"`
}

// CasePartyResponse is the restricted party-facing slice of a case.
type CasePartyResponse struct {
	CaseID          int64  `json:"caseId"`
	AssignedJudge   string `json:"assignedJudge"`
	NextHearingDate int64  `json:"nextHearingDate"`
	TotalDocuments  int64  `json:"totalDocuments"`
	RetentionDays   int64  `json:"retentionDays"`
}

// CaseListResponse is a list of cases.
type CaseListResponse struct {
	Items []CaseResponse `json:"items"`
	Total int64          `json:"total"`
}

// CaseCountResponse carries the registered case count.
type CaseCountResponse struct {
	Count int64 `json:"count"`
}

// CaseExportResponse is the compliance projection of a single case.
// It carries no party fields, so a DPO can audit a case without
// holding case-party access rights.
type CaseExportResponse struct {
	CaseID             int64  `json:"caseId"`
	CaseHash           string `json:"caseHash"`
	DataClassification string `json:"dataClassification"`
	CaseType           string `json:"caseType"`
	CaseTypeLabel      string `json:"caseTypeLabel"`
	LegalBasisHash     string `json:"legalBasisHash"`
	RetentionDays      int64  `json:"retentionDays"`
	FilingDate         int64  `json:"filingDate"`
	IsGDPRCase         bool   `json:"isGdprCase"`
}

// SweepResponse summarizes an archival sweep run.
type SweepResponse struct {
	Scanned  int `json:"scanned"`
	Archived int `json:"archived"`
	Failed   int `json:"failed"`
}
