package models

// AccessReportRequest is a request to generate a subject-access report
// receipt for a case.
type AccessReportRequest struct {
	CaseID      int64  `json:"caseId"`
	DataSubject string `json:"dataSubject"`
}
