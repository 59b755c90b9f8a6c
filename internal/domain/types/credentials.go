package types

// Registration carries the identity fields sent to POST /register.
type Registration struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenGrant is the body returned by both the password and federated exchanges.
type TokenGrant struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}
