package hackernews

import (
	"net/url"
	"strconv"
	"strings"
)

// List is one of the named collections of item ids the store publishes.
type List string

const (
	TopStories  List = "topstories"
	BestStories List = "beststories"
	NewStories  List = "newstories"
	AskStories  List = "askstories"
	ShowStories List = "showstories"
	JobStories  List = "jobstories"
)

// Lists returns every known list in a stable order.
func Lists() []List {
	return []List{TopStories, BestStories, NewStories, AskStories, ShowStories, JobStories}
}

// ParseList accepts either the full list key ("topstories") or its short name ("top"),
// case-insensitively.
func ParseList(name string) (List, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !strings.HasSuffix(name, "stories") {
		name += "stories"
	}

	for _, l := range Lists() {
		if string(l) == name {
			return l, true
		}
	}

	return "", false
}

// Path returns the store path holding the list's ids.
func (l List) Path() string {
	return string(l)
}

// maxItemPath holds the largest item id handed out so far.
const maxItemPath = "maxitem"

func itemPath(id ItemID) string {
	return "item/" + strconv.Itoa(int(id))
}

// userPath escapes handle so it always names a single path segment.
func userPath(handle Username) string {
	return "user/" + url.PathEscape(handle)
}
