package schema

// LibraryBookTable represents the 'library.book' table
type LibraryBookTable struct {
	Table         string
	ID            string
	UserID        string
	FolderID      string
	Title         string
	Author        string
	Status        string
	Progress      string
	TotalChapters string
	CoverURL      string
	Rating        string
	Notes         string
	Synopsis      string
	Genre         string
	Tags          string
	Year          string
	Publisher     string
	Language      string
	StartDate     string
	FinishDate    string
	LastRead      string
	Favorite      string
	CreatedAt     string
	UpdatedAt     string
}

// LibraryBook is the schema definition for library.book
var LibraryBook = LibraryBookTable{
	Table:         "library.book",
	ID:            "id",
	UserID:        "userid",
	FolderID:      "folderid",
	Title:         "title",
	Author:        "author",
	Status:        "status",
	Progress:      "progress",
	TotalChapters: "totalchapters",
	CoverURL:      "coverurl",
	Rating:        "rating",
	Notes:         "notes",
	Synopsis:      "synopsis",
	Genre:         "genre",
	Tags:          "tags",
	Year:          "year",
	Publisher:     "publisher",
	Language:      "language",
	StartDate:     "startdate",
	FinishDate:    "finishdate",
	LastRead:      "lastread",
	Favorite:      "favorite",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

func (t LibraryBookTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.FolderID, t.Title, t.Author, t.Status, t.Progress,
		t.TotalChapters, t.CoverURL, t.Rating, t.Notes, t.Synopsis, t.Genre,
		t.Tags, t.Year, t.Publisher, t.Language, t.StartDate, t.FinishDate,
		t.LastRead, t.Favorite, t.CreatedAt, t.UpdatedAt,
	}
}
