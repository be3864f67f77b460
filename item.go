package hackernews

import (
	"bytes"
	"errors"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
)

// ItemID is the store-wide unique identifier of an item. Real items always carry
// a positive id; negative ids are reserved for Unknown records decoded locally.
type ItemID int

// ItemType is the value of the wire discriminant field "type".
type ItemType string

const (
	TypeJob     ItemType = "job"
	TypeStory   ItemType = "story"
	TypeComment ItemType = "comment"
	TypePoll    ItemType = "poll"
	TypePollOpt ItemType = "pollopt"
	TypeUnknown ItemType = "unknown"
)

// AnonymousAuthor stands in for the author handle of items published without one,
// usually because the item was deleted.
const AnonymousAuthor = "anonymous"

// ParseItemType maps a raw discriminant to its ItemType. Both spellings of the poll
// option type that the store has used are accepted; anything else is TypeUnknown.
func ParseItemType(raw string) ItemType {
	switch raw {
	case "job":
		return TypeJob
	case "story":
		return TypeStory
	case "comment":
		return TypeComment
	case "poll":
		return TypePoll
	case "pollopt", "pollOpt":
		return TypePollOpt
	default:
		return TypeUnknown
	}
}

// Timestamp is a point in time encoded on the wire as Unix seconds.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var sec int64
	if err := json.Unmarshal(data, &sec); err != nil {
		return err
	}

	t.Time = time.Unix(sec, 0).UTC()

	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}

	return json.Marshal(t.Unix())
}

// Common holds the fields every known item variant carries.
type Common struct {
	ID      ItemID    `json:"id"`
	Type    ItemType  `json:"type"`
	By      string    `json:"by,omitempty"`
	Time    Timestamp `json:"time"`
	Deleted bool      `json:"deleted,omitempty"`
	Dead    bool      `json:"dead,omitempty"`
}

func (c *Common) common() *Common { return c }

// Job is a job posting.
type Job struct {
	Common
	Score int    `json:"score,omitempty"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Text  string `json:"text,omitempty"`
}

// Story is a link or text submission.
type Story struct {
	Common
	Descendants int      `json:"descendants"`
	Kids        []ItemID `json:"kids,omitempty"`
	Score       int      `json:"score"`
	Title       string   `json:"title"`
	URL         string   `json:"url,omitempty"`
	Text        string   `json:"text,omitempty"`
}

// Comment is a reply to a story, poll or another comment.
type Comment struct {
	Common
	Kids   []ItemID `json:"kids,omitempty"`
	Parent ItemID   `json:"parent"`
	Text   string   `json:"text,omitempty"`
}

// Poll is a story whose options are listed in Parts.
type Poll struct {
	Common
	Descendants int      `json:"descendants"`
	Kids        []ItemID `json:"kids,omitempty"`
	Parts       []ItemID `json:"parts"`
	Score       int      `json:"score"`
	Title       string   `json:"title"`
	Text        string   `json:"text,omitempty"`
}

// PollOpt is a single option of a Poll.
type PollOpt struct {
	Common
	Poll  ItemID `json:"poll"`
	Score int    `json:"score"`
	Text  string `json:"text,omitempty"`
}

// Unknown is a record whose discriminant is not recognized or whose payload did
// not fit the variant it claimed. Raw keeps the original bytes for inspection.
type Unknown struct {
	ID      ItemID
	RawType string
	Raw     []byte
}

// payload is implemented by the pointer of every variant, sealing the set of
// types an Item can hold to the ones declared in this file.
type payload interface {
	itemID() ItemID
	itemType() ItemType
}

func (c *Common) itemID() ItemID { return c.ID }
func (*Job) itemType() ItemType { return TypeJob }
func (*Story) itemType() ItemType { return TypeStory }
func (*Comment) itemType() ItemType { return TypeComment }
func (*Poll) itemType() ItemType { return TypePoll }
func (*PollOpt) itemType() ItemType { return TypePollOpt }
func (u *Unknown) itemID() ItemID { return u.ID }
func (*Unknown) itemType() ItemType { return TypeUnknown }

var errInvalidItem = errors.New("item payload is not valid JSON")

// unknownSeq hands out the synthetic ids of Unknown items. Ids count down from -1,
// so they can never alias a real item or a previously decoded Unknown.
var unknownSeq atomic.Int64

func newUnknown(rawType string, data []byte) *Unknown {
	return &Unknown{
		ID:      ItemID(-unknownSeq.Add(1)),
		RawType: rawType,
		Raw:     bytes.Clone(data),
	}
}

// Item is a read-only snapshot of one record from the store. It holds exactly one
// variant; the typed accessors (Story, Comment, ...) expose that variant, while the
// field accessors (Title, Kids, ...) project over all variants and report "no value"
// through their boolean result when the active variant lacks the field.
// Two items are the same item when their ids are equal, see Equal.
type Item struct {
	p payload
}

// DecodeItem classifies a wire record by its "type" field and decodes it into the
// matching variant. It never fails: unrecognized types, a missing discriminant and
// payloads that do not fit their variant all decode to Unknown.
func DecodeItem(data []byte) Item {
	var head struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(data, &head); err != nil {
		return Item{p: newUnknown("", data)}
	}

	t := ParseItemType(head.Type)

	var p interface {
		payload
		common() *Common
	}

	switch t {
	case TypeJob:
		p = &Job{}
	case TypeStory:
		p = &Story{}
	case TypeComment:
		p = &Comment{}
	case TypePoll:
		p = &Poll{}
	case TypePollOpt:
		p = &PollOpt{}
	default:
		return Item{p: newUnknown(head.Type, data)}
	}

	// A variant missing its id is as unusable as one that failed to parse.
	if err := json.Unmarshal(data, p); err != nil || p.common().ID <= 0 {
		return Item{p: newUnknown(head.Type, data)}
	}

	p.common().Type = t

	return Item{p: p}
}

// UnmarshalJSON decodes a record with DecodeItem. Only bytes that are not JSON at all
// are rejected; every well-formed record yields an Item.
func (i *Item) UnmarshalJSON(data []byte) error {
	if !json.Valid(data) {
		return errInvalidItem
	}

	*i = DecodeItem(data)

	return nil
}

func (i Item) MarshalJSON() ([]byte, error) {
	switch v := i.p.(type) {
	case nil:
		return []byte("null"), nil
	case *Unknown:
		if len(v.Raw) == 0 {
			return []byte("null"), nil
		}
		return v.Raw, nil
	default:
		return json.Marshal(v)
	}
}

// ID returns the item's identifier. Unknown items report their synthetic negative id.
func (i Item) ID() ItemID {
	if i.p == nil {
		return 0
	}

	return i.p.itemID()
}

// Type returns the active variant's type.
func (i Item) Type() ItemType {
	if i.p == nil {
		return TypeUnknown
	}

	return i.p.itemType()
}

// Equal reports whether both items have the same id, regardless of payload.
func (i Item) Equal(other Item) bool {
	return i.ID() == other.ID()
}

func (i Item) common() *Common {
	if c, ok := i.p.(interface{ common() *Common }); ok {
		return c.common()
	}

	return nil
}

func (i Item) Job() (Job, bool) {
	v, ok := i.p.(*Job)
	if !ok {
		return Job{}, false
	}
	return *v, true
}

func (i Item) Story() (Story, bool) {
	v, ok := i.p.(*Story)
	if !ok {
		return Story{}, false
	}
	return *v, true
}

func (i Item) Comment() (Comment, bool) {
	v, ok := i.p.(*Comment)
	if !ok {
		return Comment{}, false
	}
	return *v, true
}

func (i Item) Poll() (Poll, bool) {
	v, ok := i.p.(*Poll)
	if !ok {
		return Poll{}, false
	}
	return *v, true
}

func (i Item) PollOpt() (PollOpt, bool) {
	v, ok := i.p.(*PollOpt)
	if !ok {
		return PollOpt{}, false
	}
	return *v, true
}

func (i Item) Unknown() (Unknown, bool) {
	v, ok := i.p.(*Unknown)
	if !ok {
		return Unknown{}, false
	}
	return *v, true
}

// By returns the author handle if the item carries one.
func (i Item) By() (string, bool) {
	c := i.common()
	if c == nil || c.By == "" {
		return "", false
	}

	return c.By, true
}

// Author returns the author handle, or AnonymousAuthor when there is none.
func (i Item) Author() string {
	if by, ok := i.By(); ok {
		return by
	}

	return AnonymousAuthor
}

func (i Item) Time() (time.Time, bool) {
	c := i.common()
	if c == nil || c.Time.IsZero() {
		return time.Time{}, false
	}

	return c.Time.Time, true
}

// Deleted and Dead return plain flags: the store omits them unless they are set, so an
// absent flag and a false one mean the same thing. Unknown items report false.
func (i Item) Deleted() bool {
	c := i.common()
	return c != nil && c.Deleted
}

func (i Item) Dead() bool {
	c := i.common()
	return c != nil && c.Dead
}

// Kids returns the ids of direct replies in ranked display order.
func (i Item) Kids() ([]ItemID, bool) {
	switch v := i.p.(type) {
	case *Story:
		return v.Kids, v.Kids != nil
	case *Comment:
		return v.Kids, v.Kids != nil
	case *Poll:
		return v.Kids, v.Kids != nil
	default:
		return nil, false
	}
}

// Parent returns the id of the item a comment replies to.
func (i Item) Parent() (ItemID, bool) {
	if v, ok := i.p.(*Comment); ok {
		return v.Parent, true
	}

	return 0, false
}

// PollID returns the owning poll of a poll option.
func (i Item) PollID() (ItemID, bool) {
	if v, ok := i.p.(*PollOpt); ok {
		return v.Poll, true
	}

	return 0, false
}

func (i Item) URL() (string, bool) {
	switch v := i.p.(type) {
	case *Story:
		return v.URL, v.URL != ""
	case *Job:
		return v.URL, v.URL != ""
	default:
		return "", false
	}
}

func (i Item) Score() (int, bool) {
	switch v := i.p.(type) {
	case *Story:
		return v.Score, true
	case *Poll:
		return v.Score, true
	case *PollOpt:
		return v.Score, true
	case *Job:
		return v.Score, true
	default:
		return 0, false
	}
}

func (i Item) Title() (string, bool) {
	switch v := i.p.(type) {
	case *Story:
		return v.Title, true
	case *Poll:
		return v.Title, true
	case *Job:
		return v.Title, true
	default:
		return "", false
	}
}

// Text returns the HTML body of the item. See PlainText for a tag-free rendering.
func (i Item) Text() (string, bool) {
	var text string

	switch v := i.p.(type) {
	case *Story:
		text = v.Text
	case *Comment:
		text = v.Text
	case *Poll:
		text = v.Text
	case *PollOpt:
		text = v.Text
	case *Job:
		text = v.Text
	default:
		return "", false
	}

	return text, text != ""
}

// Parts returns the poll option ids of a poll in display order.
func (i Item) Parts() ([]ItemID, bool) {
	if v, ok := i.p.(*Poll); ok {
		return v.Parts, true
	}

	return nil, false
}

// Descendants returns the total comment count of a story or poll.
func (i Item) Descendants() (int, bool) {
	switch v := i.p.(type) {
	case *Story:
		return v.Descendants, true
	case *Poll:
		return v.Descendants, true
	default:
		return 0, false
	}
}
