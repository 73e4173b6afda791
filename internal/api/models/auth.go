package models

// TokenRequest is a request to mint an identity token.
type TokenRequest struct {
	Secret   string `json:"secret"`
	Identity string `json:"identity"`
}

// TokenResponse carries a minted identity token.
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresAt int64  `json:"expiresAt"`
}
