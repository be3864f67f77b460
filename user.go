package hackernews

// Username is a case-sensitive user handle.
type Username = string

// User is a read-only snapshot of a user profile.
type User struct {
	ID        Username  `json:"id"`
	Created   Timestamp `json:"created"`
	Karma     int       `json:"karma"`
	About     string    `json:"about,omitempty"`
	Submitted []ItemID  `json:"submitted,omitempty"`
}

// PlainAbout returns the biography with its HTML markup removed.
func (u User) PlainAbout() string {
	return PlainText(u.About)
}
