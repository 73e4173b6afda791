package models

// CreateDataSubjectRequest is a request to open a data-subject request
// against a case.
type CreateDataSubjectRequest struct {
	CaseID             int64  `json:"caseId"`
	RequestType        string `json:"requestType"`
	RequestDetailsHash string `json:"requestDetailsHash"`
}

// ProcessDataSubjectRequest resolves a pending request.
type ProcessDataSubjectRequest struct {
	Status       string `json:"status"`
	ResponseHash string `json:"responseHash"`
}

// DataSubjectRequestResponse is a data-subject request. Overdue is
// derived at response time and never stored.
type DataSubjectRequestResponse struct {
	RequestID          int64  `json:"requestId"`
	CaseID             int64  `json:"caseId"`
	Requester          string `json:"requester"`
	RequestType        string `json:"requestType"`
	RequestTypeLabel   string `json:"requestTypeLabel"`
	Status             string `json:"status"`
	StatusLabel        string `json:"statusLabel"`
	RequestDate        int64  `json:"requestDate"`
	ResponseDeadline   int64  `json:"responseDeadline"`
	RequestDetailsHash string `json:"requestDetailsHash"`
	ResponseHash       string `json:"responseHash,omitempty"`
	Overdue            bool   `json:"overdue"`
}

// DataSubjectRequestListResponse is an ordered list of requests.
type DataSubjectRequestListResponse struct {
	Items []DataSubjectRequestResponse `json:"items"`
}
