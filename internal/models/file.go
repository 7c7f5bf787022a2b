// Package models defines the wire types exchanged with the CloudBox API.
package models

// File represents a stored file as returned by the CloudBox API.
// Timestamps are kept as strings: the server emits ISO-8601 local
// datetimes without a zone offset, which time.Time refuses to parse.
type File struct {
	ID               string  `json:"id"`
	FileName         string  `json:"fileName"`
	FilePath         string  `json:"filePath,omitempty"`
	FileType         string  `json:"fileType,omitempty"`
	FileSize         int64   `json:"fileSize"`
	Folder           *Folder `json:"folder,omitempty"`
	IsStarred        bool    `json:"isStarred"`
	IsTrashed        bool    `json:"isTrashed"`
	PublicShareToken string  `json:"publicShareToken,omitempty"`
	CreatedAt        string  `json:"createdAt,omitempty"`
	UpdatedAt        string  `json:"updatedAt,omitempty"`
}

// FolderID returns the ID of the file's parent folder, or "" when the
// file lives in the root container.
func (f *File) FolderID() string {
	if f.Folder == nil {
		return ""
	}
	return f.Folder.ID
}
