package models

// AuthRequest is the body for login and register. Name is only used by
// register.
type AuthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// GoogleAuthRequest exchanges a Google identity token for a bearer token.
type GoogleAuthRequest struct {
	IDToken string `json:"idToken"`
}

// AuthResponse carries the bearer token issued on successful
// authentication.
type AuthResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}
