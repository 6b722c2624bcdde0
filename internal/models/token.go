package models

import "time"

// Token is a registered currency name that wallets may hold.
type Token struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CreateTokenRequest represents the JSON body for registering a token
// swagger:model CreateTokenRequest
type CreateTokenRequest struct {
	// Token name
	// required: true
	// example: USDT
	Name string `json:"name" validate:"required,max=32,tokenformat"`
}

// Validate checks the request against its tags.
func (r CreateTokenRequest) Validate() error {
	return validate.Struct(r)
}

// TokenErrorResponse represents an error response for token endpoints
// swagger:model TokenErrorResponse
type TokenErrorResponse struct {
	// Error message
	// example: Token already exists
	Error string `json:"error"`
}
