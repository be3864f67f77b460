package hackernews

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultSearchURL is the root of the public search index.
const DefaultSearchURL = "https://hn.algolia.com/api/v1"

// searchTags restricts results to stories and polls. Comments are indexed too but
// are never returned by Search.
const searchTags = "(story,poll)"

// SearchMode selects how the index ranks results.
type SearchMode int

const (
	// ExactMatch ranks by relevance to the query.
	ExactMatch SearchMode = iota
	// MostRecent ranks by creation date, newest first.
	MostRecent
)

func (m SearchMode) endpoint() string {
	if m == MostRecent {
		return "search_by_date"
	}

	return "search"
}

func (m SearchMode) String() string {
	if m == MostRecent {
		return "most_recent"
	}

	return "exact_match"
}

// SearchHit is a single index result. Only the id of the matched item is kept.
// The index has published that id as "objectID" (a string) and, in an older schema,
// as "story_id" (a number); both are accepted, "objectID" first.
type SearchHit struct {
	ID ItemID
}

func (h *SearchHit) UnmarshalJSON(data []byte) error {
	var raw struct {
		ObjectID json.RawMessage `json:"objectID"`
		StoryID  json.RawMessage `json:"story_id"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if id, ok := parseHitID(raw.ObjectID); ok {
		h.ID = id
		return nil
	}

	if id, ok := parseHitID(raw.StoryID); ok {
		h.ID = id
		return nil
	}

	h.ID = 0

	return nil
}

// parseHitID reads an id given either as a JSON number or as a numeric JSON string.
func parseHitID(raw json.RawMessage) (ItemID, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil && n > 0 {
		return ItemID(n), true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}

	return ItemID(n), true
}

type searchResults struct {
	Hits []SearchHit `json:"hits"`
}

// Searcher turns a free-text query into items: it asks the external index for matching
// ids and resolves them through a batch Fetcher. A response the index fails to deliver
// is treated as "no results" rather than as an error.
type Searcher struct {
	client  *http.Client
	baseURL string
	fetcher Fetcher[Item]
	log     zerolog.Logger
}

// NewSearcher constructs a Searcher. A Fetcher is mandatory.
func NewSearcher(opts ...SearcherOption) (*Searcher, error) {
	searcher := &Searcher{
		baseURL: DefaultSearchURL,
		log:     log.Logger,
	}

	for _, opt := range opts {
		opt(searcher)
	}

	if searcher.fetcher == nil {
		return nil, ErrEmptyFetcher
	}

	if searcher.client == nil {
		searcher.client = newHTTPClient(defaultRequestTimeout, defaultResourceTimeout)
	}

	return searcher, nil
}

// Search queries the index and returns the matching stories and polls in the order the
// index ranked them. A transport failure or non-2xx answer yields an empty result and
// no error; an invalid index URL or an undecodable hit list is returned as an error.
// When the index reports no hits the fetcher is not called.
func (s *Searcher) Search(ctx context.Context, query string, mode SearchMode) ([]Item, error) {
	endpoint, err := url.Parse(strings.TrimRight(s.baseURL, "/") + "/" + mode.endpoint())
	if err != nil {
		return nil, fmt.Errorf("hackernews: search url: %w", err)
	}

	q := endpoint.Query()
	q.Set("query", query)
	q.Set("tags", searchTags)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("hackernews: search request: %w", err)
	}

	logger := s.log.With().Stringer("mode", mode).Str("query", maskValue(query)).Logger()
	logger.Info().Msg("searching")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn().Err(err).Msg("search request failed")
		}
		return []Item{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn().Int("status", resp.StatusCode).Msg("search returned no results")
		return []Item{}, nil
	}

	var results searchResults
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("hackernews: decode search hits: %w", err)
	}

	ids := make([]ItemID, 0, len(results.Hits))
	for _, hit := range results.Hits {
		if hit.ID > 0 {
			ids = append(ids, hit.ID)
		}
	}

	if len(ids) == 0 {
		return []Item{}, nil
	}

	return s.fetcher.Fetch(ctx, ids), nil
}
