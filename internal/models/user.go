package models

// User is the signed-in identity. It is persisted as JSON under the "user" key.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// AuthResult is returned by login and register.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
