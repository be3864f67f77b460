package hackernews

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultSiteURL is the root of the site authenticated actions are posted to.
const DefaultSiteURL = "https://news.ycombinator.com"

// ActionSender posts a form to an action path of the site and reports whether the site
// accepted it. Parameters are arbitrary string-keyed values.
type ActionSender interface {
	Send(ctx context.Context, path string, params map[string]string) error
}

// Session is an ActionSender that also owns the cookies of the logged-in user.
type Session interface {
	ActionSender
	LoggedIn() bool
	LogOut()
}

// FormSender sends actions as URL-encoded form POSTs. Every action first discards the
// current session cookies; credentials travel with each action instead, which logs in
// and performs the action in one request and avoids scraping per-action auth tokens.
// Actions are serialized since they all rewrite the same cookie jar.
type FormSender struct {
	mu      sync.Mutex
	client  *http.Client
	site    *url.URL
	siteURL string
	log     zerolog.Logger
}

// NewFormSender constructs a FormSender with an empty cookie jar.
func NewFormSender(opts ...FormSenderOption) (*FormSender, error) {
	sender := &FormSender{
		siteURL: DefaultSiteURL,
		log:     log.Logger,
	}

	for _, opt := range opts {
		opt(sender)
	}

	site, err := url.ParseRequestURI(sender.siteURL)
	if err != nil {
		return nil, fmt.Errorf("hackernews: site url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	sender.site = site
	sender.client = newHTTPClient(defaultRequestTimeout, defaultResourceTimeout)
	sender.client.Jar = jar

	return sender, nil
}

// LoggedIn reports whether the site has left any session cookie.
func (s *FormSender) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.client.Jar.Cookies(s.site)) > 0
}

// LogOut discards every cookie of the current session.
func (s *FormSender) LogOut() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logOut()
}

func (s *FormSender) logOut() {
	// cookiejar.New only fails on a bad PublicSuffixList, and none is given.
	jar, _ := cookiejar.New(nil)
	s.client.Jar = jar
}

// Send logs out, then posts params form-encoded to path. Only a 2xx answer, after
// redirects, counts as success. Parameter values are never logged.
func (s *FormSender) Send(ctx context.Context, path string, params map[string]string) error {
	target := s.site.ResolveReference(&url.URL{Path: path})

	form := make(url.Values, len(params))
	for k, v := range params {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("hackernews: action request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	s.mu.Lock()
	defer s.mu.Unlock()

	s.logOut()

	s.log.Info().Str("action", path).Msg("sending action")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	return nil
}

// Account performs authenticated actions on behalf of one user.
type Account struct {
	session  Session
	username Username
	password string
}

// NewAccount binds credentials to a session.
func NewAccount(session Session, username Username, password string) *Account {
	return &Account{session: session, username: username, password: password}
}

func (a *Account) params(extra map[string]string) map[string]string {
	params := map[string]string{
		"acct": a.username,
		"pw":   a.password,
	}

	for k, v := range extra {
		params[k] = v
	}

	return params
}

func (a *Account) itemAction(ctx context.Context, path string, id ItemID, extra map[string]string) error {
	params := a.params(extra)
	params["id"] = strconv.Itoa(int(id))

	return a.session.Send(ctx, path, params)
}

// LogIn posts the credentials and reports whether the site started a session.
func (a *Account) LogIn(ctx context.Context) (bool, error) {
	if err := a.session.Send(ctx, "/login", a.params(map[string]string{"goto": "news"})); err != nil {
		return false, err
	}

	return a.session.LoggedIn(), nil
}

func (a *Account) LogOut() { a.session.LogOut() }

func (a *Account) LoggedIn() bool { return a.session.LoggedIn() }

func (a *Account) Flag(ctx context.Context, id ItemID) error {
	return a.itemAction(ctx, "/flag", id, nil)
}

func (a *Account) Upvote(ctx context.Context, id ItemID) error {
	return a.itemAction(ctx, "/vote", id, map[string]string{"how": "up"})
}

func (a *Account) Downvote(ctx context.Context, id ItemID) error {
	return a.itemAction(ctx, "/vote", id, map[string]string{"how": "down"})
}

func (a *Account) Favorite(ctx context.Context, id ItemID) error {
	return a.itemAction(ctx, "/fave", id, nil)
}

func (a *Account) Unfavorite(ctx context.Context, id ItemID) error {
	return a.itemAction(ctx, "/fave", id, map[string]string{"un": "t"})
}

// Reply posts text as a comment under parent.
func (a *Account) Reply(ctx context.Context, parent ItemID, text string) error {
	return a.session.Send(ctx, "/comment", a.params(map[string]string{
		"parent": strconv.Itoa(int(parent)),
		"text":   text,
	}))
}
