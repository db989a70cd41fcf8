package schema

// LibraryReadingProgressTable represents the 'library.readingprogress' table
type LibraryReadingProgressTable struct {
	Table             string
	UserID            string
	MangaID           string
	LastReadChapterID string
	ChaptersRead      string
	LastReadPage      string
	ReadingStatus     string
	UpdatedAt         string
}

// LibraryReadingProgress is the schema definition for library.readingprogress
var LibraryReadingProgress = LibraryReadingProgressTable{
	Table:             "library.readingprogress",
	UserID:            "userid",
	MangaID:           "mangaid",
	LastReadChapterID: "lastreadchapterid",
	ChaptersRead:      "chaptersread",
	LastReadPage:      "lastreadpage",
	ReadingStatus:     "readingstatus",
	UpdatedAt:         "updatedat",
}

// LibraryBookmarkTable represents the 'library.bookmark' table
type LibraryBookmarkTable struct {
	Table     string
	UserID    string
	MangaID   string
	CreatedAt string
}

// LibraryBookmark is the schema definition for library.bookmark
var LibraryBookmark = LibraryBookmarkTable{
	Table:     "library.bookmark",
	UserID:    "userid",
	MangaID:   "mangaid",
	CreatedAt: "createdat",
}

// LibraryCustomListTable represents the 'library.customlist' table
type LibraryCustomListTable struct {
	Table       string
	ID          string
	UserID      string
	Name        string
	Description string
	IsPublic    string
	CreatedAt   string
	UpdatedAt   string
}

// LibraryCustomList is the schema definition for library.customlist
var LibraryCustomList = LibraryCustomListTable{
	Table:       "library.customlist",
	ID:          "id",
	UserID:      "userid",
	Name:        "name",
	Description: "description",
	IsPublic:    "ispublic",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// LibraryCustomListItemTable represents the 'library.customlistitem' table
type LibraryCustomListItemTable struct {
	Table   string
	ListID  string
	MangaID string
	AddedAt string
}

// LibraryCustomListItem is the schema definition for library.customlistitem
var LibraryCustomListItem = LibraryCustomListItemTable{
	Table:   "library.customlistitem",
	ListID:  "listid",
	MangaID: "mangaid",
	AddedAt: "addedat",
}
