package api

import (
	"context"

	"inputdash/internal/dto"
)

// Wire types are shared with the server.
type (
	Input         = dto.InputResponse
	InputUpdate   = dto.UpdateInputRequest
	TokenResponse = dto.TokenResponse
	UserResponse  = dto.UserResponse
)

// Backend is what the client needs from a store of inputs: the REST API, or
// the local demo store.
type Backend interface {
	Login(ctx context.Context, email, password string) (TokenResponse, error)
	Register(ctx context.Context, email, password string) (UserResponse, error)
	ListInputs(ctx context.Context, order string) ([]Input, error)
	GetInput(ctx context.Context, id int64) (Input, error)
	CreateInput(ctx context.Context, text string) (Input, error)
	UpdateInput(ctx context.Context, id int64, patch InputUpdate) (Input, error)
	DeleteInput(ctx context.Context, id int64) error
}

// TokenSetter is implemented by backends that send a bearer token.
type TokenSetter interface {
	SetToken(token string)
}
