package dto

// LoginRequest is the body of POST /users/login. It accepts the OAuth2 password
// form (username, password) as well as JSON.
type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// RegisterRequest is the JSON body for POST /users/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=320"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse is returned when user info is needed (register, me).
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}
