package models

// Permission is the access level granted by a share.
type Permission string

const (
	PermissionViewer Permission = "VIEWER"
	PermissionEditor Permission = "EDITOR"
)

// User identifies an account on the share endpoints. The server never
// returns password material to clients.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Share is a user-to-user grant on a single file.
type Share struct {
	ID         string     `json:"id"`
	File       *File      `json:"file,omitempty"`
	SharedBy   *User      `json:"sharedBy,omitempty"`
	SharedWith *User      `json:"sharedWith,omitempty"`
	Permission Permission `json:"permission"`
	CreatedAt  string     `json:"createdAt,omitempty"`
	ExpiresAt  string     `json:"expiresAt,omitempty"`
}

// ShareRequest is the body for creating a share.
type ShareRequest struct {
	FileID     string     `json:"fileId"`
	Email      string     `json:"email"`
	Permission Permission `json:"permission"`
}
