package schemas

// UserRowView is one row of the home page's user directory.
type UserRowView struct {
	UserID    string
	Username  string
	FirstName string
	LastName  string
	PostCount int
}

// PostView is a rendered post on the home feed or a timeline.
type PostView struct {
	PostID         string
	AuthorID       string
	AuthorUsername string
	Message        string
	CreatedAt      string
}

// TimelineView is the data backing the timeline page.
type TimelineView struct {
	ProfileUserID   string
	ProfileUsername string
	ProfileName     string
	Posts           []PostView
	IsOwnProfile    bool
}
