package auth

import "github.com/golang-jwt/jwt/v5"

// Account is the authentication identity. Everything else in the system
// hangs off it.
type Account struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password []byte `json:"-"`
}

type AccountClaim struct {
	AccountID int64  `json:"account_id"`
	Username  string `json:"username"`
	TokenType string `json:"token_type"`

	jwt.RegisteredClaims
}
