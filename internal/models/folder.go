package models

// Folder represents a folder as returned by the CloudBox API.
type Folder struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ParentFolder *Folder `json:"parentFolder,omitempty"`
	IsTrashed    bool    `json:"isTrashed"`
	CreatedAt    string  `json:"createdAt,omitempty"`
	UpdatedAt    string  `json:"updatedAt,omitempty"`
}

// ParentID returns the ID of the parent folder, or "" at the root.
func (f *Folder) ParentID() string {
	if f.ParentFolder == nil {
		return ""
	}
	return f.ParentFolder.ID
}

// FolderRef is an immutable reference to a folder, used both as a
// breadcrumb entry and as the browser's current-folder pointer.
// The zero ID denotes the root container.
type FolderRef struct {
	ID   string
	Name string
}

// Root returns the breadcrumb entry for the root container.
func Root() FolderRef {
	return FolderRef{Name: "Home"}
}

// IsRoot reports whether the reference points at the root container.
func (r FolderRef) IsRoot() bool {
	return r.ID == ""
}

// Ref returns a FolderRef for the folder.
func (f *Folder) Ref() FolderRef {
	return FolderRef{ID: f.ID, Name: f.Name}
}
