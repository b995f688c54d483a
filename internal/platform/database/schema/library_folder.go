package schema

// LibraryFolderTable represents the 'library.folder' table
type LibraryFolderTable struct {
	Table     string
	ID        string
	UserID    string
	Name      string
	Color     string
	CreatedAt string
	UpdatedAt string
}

// LibraryFolder is the schema definition for library.folder
var LibraryFolder = LibraryFolderTable{
	Table:     "library.folder",
	ID:        "id",
	UserID:    "userid",
	Name:      "name",
	Color:     "color",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t LibraryFolderTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.Name, t.Color, t.CreatedAt, t.UpdatedAt,
	}
}
