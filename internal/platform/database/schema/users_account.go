package schema

// UsersAccountTable represents the 'users.account' table
type UsersAccountTable struct {
	Table             string
	ID                string
	Username          string
	Email             string
	PasswordHash      string
	ProfileImage      string
	Role              string
	ContentFilter     string
	NotifyNewChapters string
	CreatedAt         string
	UpdatedAt         string
}

// UsersAccount is the schema definition for users.account
var UsersAccount = UsersAccountTable{
	Table:             "users.account",
	ID:                "id",
	Username:          "username",
	Email:             "email",
	PasswordHash:      "passwordhash",
	ProfileImage:      "profileimage",
	Role:              "role",
	ContentFilter:     "contentfilter",
	NotifyNewChapters: "notifynewchapters",
	CreatedAt:         "createdat",
	UpdatedAt:         "updatedat",
}

// Columns returns every column in scan order.
func (t UsersAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.PasswordHash, t.ProfileImage,
		t.Role, t.ContentFilter, t.NotifyNewChapters, t.CreatedAt, t.UpdatedAt,
	}
}
