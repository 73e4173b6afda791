package models

// RevokeKeyRequest is a request to revoke an encryption key reference.
type RevokeKeyRequest struct {
	CaseID int64  `json:"caseId"`
	KeyRef string `json:"keyRef"`
}

// KeyStatusResponse is the revocation state of a key reference.
type KeyStatusResponse struct {
	KeyRef    string `json:"keyRef"`
	Revoked   bool   `json:"revoked"`
	RevokedBy string `json:"revokedBy,omitempty"`
	RevokedAt int64  `json:"revokedAt,omitempty"`
}
