package models

// SubmitDocumentRequest is a request to submit a document to a case.
type SubmitDocumentRequest struct {
	ContentHash      string `json:"contentHash"`
	DocumentTypeHash string `json:"documentTypeHash"`
	EncryptionKeyRef string `json:"encryptionKeyRef,omitempty"`
	IsEncrypted      bool   `json:"isEncrypted"`
}

// DocumentResponse is a document with its derived readability.
type DocumentResponse struct {
	CaseID           int64  `json:"caseId"`
	DocID            int64  `json:"docId"`
	ContentHash      string `json:"contentHash"`
	DocumentTypeHash string `json:"documentTypeHash"`
	EncryptionKeyRef string `json:"encryptionKeyRef,omitempty"`
	IsEncrypted      bool   `json:"isEncrypted"`
	SubmittedBy      string `json:"submittedBy"`
	SubmissionDate   int64  `json:"submissionDate"`
	Accessible       bool   `json:"accessible"`
}

// DocumentListResponse is a case's documents.
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
}
