// internal/models/identity.go
package models

// Identity is the authenticated author behind a request.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}
