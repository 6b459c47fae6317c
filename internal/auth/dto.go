package auth

// SignUpRequest is the sign-up body. Password complexity requires mixed
// case plus at least one digit or symbol.
type SignUpRequest struct {
	Username string `json:"username" validate:"required,min=2,max=20"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=20,password"`
}

// SignInRequest is the sign-in body. Username accepts either the username
// or the email address as the identifier.
type SignInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignInResponse carries the issued bearer token.
type SignInResponse struct {
	AccessToken string `json:"accessToken"`
}
