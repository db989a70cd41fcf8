package schema

// CoreMangaTable represents the 'core.manga' table
type CoreMangaTable struct {
	Table                 string
	ID                    string
	Slug                  string
	Title                 string
	Description           string
	Author                string
	Tags                  string
	Demographic           string
	Status                string
	PublicationState      string
	ContentRating         string
	CoverImage            string
	BannerImage           string
	PublishedAt           string
	FinishedAt            string
	ChapterCount          string
	LatestChapterID       string
	LastChapterUpdated    string
	FirstChapterPublished string
	Languages             string
	AverageRating         string
	RatingCount           string
	Reads                 string
	PopularityScore       string
	CommentIDs            string
	CreatedAt             string
	UpdatedAt             string
}

// CoreManga is the schema definition for core.manga
var CoreManga = CoreMangaTable{
	Table:                 "core.manga",
	ID:                    "id",
	Slug:                  "slug",
	Title:                 "title",
	Description:           "description",
	Author:                "author",
	Tags:                  "tags",
	Demographic:           "demographic",
	Status:                "status",
	PublicationState:      "publicationstate",
	ContentRating:         "contentrating",
	CoverImage:            "coverimage",
	BannerImage:           "bannerimage",
	PublishedAt:           "publishedat",
	FinishedAt:            "finishedat",
	ChapterCount:          "chaptercount",
	LatestChapterID:       "latestchapterid",
	LastChapterUpdated:    "lastchapterupdated",
	FirstChapterPublished: "firstchapterpublished",
	Languages:             "languages",
	AverageRating:         "averagerating",
	RatingCount:           "ratingcount",
	Reads:                 "reads",
	PopularityScore:       "popularityscore",
	CommentIDs:            "commentids",
	CreatedAt:             "createdat",
	UpdatedAt:             "updatedat",
}

// Columns returns every column in scan order.
func (t CoreMangaTable) Columns() []string {
	return []string{
		t.ID, t.Slug, t.Title, t.Description, t.Author, t.Tags,
		t.Demographic, t.Status, t.PublicationState, t.ContentRating,
		t.CoverImage, t.BannerImage, t.PublishedAt, t.FinishedAt,
		t.ChapterCount, t.LatestChapterID, t.LastChapterUpdated, t.FirstChapterPublished, t.Languages,
		t.AverageRating, t.RatingCount, t.Reads, t.PopularityScore, t.CommentIDs,
		t.CreatedAt, t.UpdatedAt,
	}
}
