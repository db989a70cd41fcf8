package schema

// CoreChapterTable represents the 'core.chapter' table
type CoreChapterTable struct {
	Table          string
	ID             string
	MangaID        string
	Number         string
	Volume         string
	ReleaseDate    string
	ReadCount      string
	CoverImage     string
	BackCoverImage string
	Languages      string
	CommentIDs     string
	CreatedAt      string
	UpdatedAt      string
}

// CoreChapter is the schema definition for core.chapter
var CoreChapter = CoreChapterTable{
	Table:          "core.chapter",
	ID:             "id",
	MangaID:        "mangaid",
	Number:         "number",
	Volume:         "volume",
	ReleaseDate:    "releasedate",
	ReadCount:      "readcount",
	CoverImage:     "coverimage",
	BackCoverImage: "backcoverimage",
	Languages:      "languages",
	CommentIDs:     "commentids",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

// Columns returns every column in scan order.
func (t CoreChapterTable) Columns() []string {
	return []string{
		t.ID, t.MangaID, t.Number, t.Volume, t.ReleaseDate, t.ReadCount,
		t.CoverImage, t.BackCoverImage, t.Languages, t.CommentIDs,
		t.CreatedAt, t.UpdatedAt,
	}
}
