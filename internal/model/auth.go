package model

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=client professional"`
}

type RegisterClientRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	PhoneNumber string `json:"phone_number" binding:"max=30"`
	City        string `json:"city" binding:"max=100"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
	Role         string `json:"role" binding:"required,oneof=client professional"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse carries the token pair plus the authenticated profile, one of
// the two pointers set according to the role.
type AuthResponse struct {
	TokenPair
	Client       *Client       `json:"client,omitempty"`
	Professional *Professional `json:"professional,omitempty"`
}
