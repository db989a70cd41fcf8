package schema

// SocialRatingTable represents the 'social.rating' table
type SocialRatingTable struct {
	Table     string
	ID        string
	UserID    string
	MangaID   string
	Score     string
	Review    string
	CreatedAt string
	UpdatedAt string
}

// SocialRating is the schema definition for social.rating
var SocialRating = SocialRatingTable{
	Table:     "social.rating",
	ID:        "id",
	UserID:    "userid",
	MangaID:   "mangaid",
	Score:     "score",
	Review:    "review",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// SocialCommentTable represents the 'social.comment' table
type SocialCommentTable struct {
	Table     string
	ID        string
	UserID    string
	MangaID   string
	ChapterID string
	Content   string
	Status    string
	Replies   string
	Likes     string
	Dislikes  string
	CreatedAt string
	UpdatedAt string
}

// SocialComment is the schema definition for social.comment
var SocialComment = SocialCommentTable{
	Table:     "social.comment",
	ID:        "id",
	UserID:    "userid",
	MangaID:   "mangaid",
	ChapterID: "chapterid",
	Content:   "content",
	Status:    "status",
	Replies:   "replies",
	Likes:     "likes",
	Dislikes:  "dislikes",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns every column in scan order.
func (t SocialCommentTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.MangaID, t.ChapterID, t.Content, t.Status,
		t.Replies, t.Likes, t.Dislikes, t.CreatedAt, t.UpdatedAt,
	}
}

// SocialNotificationTable represents the 'social.notification' table
type SocialNotificationTable struct {
	Table     string
	ID        string
	UserID    string
	Type      string
	Content   string
	MangaID   string
	ChapterID string
	IsRead    string
	CreatedAt string
}

// SocialNotification is the schema definition for social.notification
var SocialNotification = SocialNotificationTable{
	Table:     "social.notification",
	ID:        "id",
	UserID:    "userid",
	Type:      "type",
	Content:   "content",
	MangaID:   "mangaid",
	ChapterID: "chapterid",
	IsRead:    "isread",
	CreatedAt: "createdat",
}
