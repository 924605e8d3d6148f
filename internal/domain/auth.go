package domain

// TokenTypeBearer is the only token type the identity service accepts.
const TokenTypeBearer = "bearer"

// Credential is the payload exchanged for a VerifiedUser.
type Credential struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// BearerCredential wraps a session token.
func BearerCredential(token string) Credential {
	return Credential{AccessToken: token, TokenType: TokenTypeBearer}
}
