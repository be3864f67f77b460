package hackernews

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// actionRecorder is a site stub that records every form it receives and hands out a
// session cookie on successful login.
type actionRecorder struct {
	mu       sync.Mutex
	paths    []string
	forms    []map[string]string
	cookies  []int
	failPath string
}

func (a *actionRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	form := map[string]string{}
	for k := range r.PostForm {
		form[k] = r.PostForm.Get(k)
	}

	a.mu.Lock()
	a.paths = append(a.paths, r.Method+" "+r.URL.Path)
	a.forms = append(a.forms, form)
	a.cookies = append(a.cookies, len(r.Cookies()))
	a.mu.Unlock()

	if r.Header.Get("Content-Type") != "application/x-www-form-urlencoded" {
		w.WriteHeader(http.StatusUnsupportedMediaType)
		return
	}

	if r.URL.Path == a.failPath {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	if r.URL.Path == "/login" && form["pw"] == "secret" {
		http.SetCookie(w, &http.Cookie{Name: "user", Value: form["acct"] + "&token", Path: "/"})
	}

	w.WriteHeader(http.StatusOK)
}

func newTestAccount(t *testing.T, recorder *actionRecorder, password string) (*Account, *FormSender) {
	t.Helper()

	server := httptest.NewServer(recorder)
	t.Cleanup(server.Close)

	sender, err := NewFormSender(WithSiteURL(server.URL), WithSenderLogger(zerolog.Nop()))
	assert.NoError(t, err)

	return NewAccount(sender, "pg", password), sender
}

func TestAccountLogIn(t *testing.T) {
	t.Parallel()

	recorder := &actionRecorder{}
	account, _ := newTestAccount(t, recorder, "secret")

	ok, err := account.LogIn(context.Background())

	assert.NoError(t, err)
	assert.True(t, ok, "A session cookie means the login succeeded")
	assert.True(t, account.LoggedIn())
	assert.Equal(t, []string{"POST /login"}, recorder.paths)
	assert.Equal(t, map[string]string{"acct": "pg", "pw": "secret", "goto": "news"}, recorder.forms[0])

	account.LogOut()
	assert.False(t, account.LoggedIn())
}

func TestAccountLogInRejected(t *testing.T) {
	t.Parallel()

	account, _ := newTestAccount(t, &actionRecorder{}, "wrong")

	ok, err := account.LogIn(context.Background())

	assert.NoError(t, err)
	assert.False(t, ok)
}

// TestAccountActions verifies the form every action posts and that each action starts
// from a logged out session, carrying the credentials itself.
func TestAccountActions(t *testing.T) {
	t.Parallel()

	recorder := &actionRecorder{}
	account, _ := newTestAccount(t, recorder, "secret")
	ctx := context.Background()

	_, err := account.LogIn(ctx)
	assert.NoError(t, err)

	assert.NoError(t, account.Upvote(ctx, 8863))
	assert.NoError(t, account.Downvote(ctx, 8863))
	assert.NoError(t, account.Flag(ctx, 8864))
	assert.NoError(t, account.Favorite(ctx, 8865))
	assert.NoError(t, account.Unfavorite(ctx, 8865))
	assert.NoError(t, account.Reply(ctx, 8863, "Nice & clean"))

	assert.Equal(t, []string{
		"POST /login",
		"POST /vote",
		"POST /vote",
		"POST /flag",
		"POST /fave",
		"POST /fave",
		"POST /comment",
	}, recorder.paths)

	creds := map[string]string{"acct": "pg", "pw": "secret"}
	with := func(extra map[string]string) map[string]string {
		out := map[string]string{}
		for k, v := range creds {
			out[k] = v
		}
		for k, v := range extra {
			out[k] = v
		}
		return out
	}

	assert.Equal(t, with(map[string]string{"id": "8863", "how": "up"}), recorder.forms[1])
	assert.Equal(t, with(map[string]string{"id": "8863", "how": "down"}), recorder.forms[2])
	assert.Equal(t, with(map[string]string{"id": "8864"}), recorder.forms[3])
	assert.Equal(t, with(map[string]string{"id": "8865"}), recorder.forms[4])
	assert.Equal(t, with(map[string]string{"id": "8865", "un": "t"}), recorder.forms[5])
	assert.Equal(t, with(map[string]string{"parent": "8863", "text": "Nice & clean"}), recorder.forms[6])

	for i, n := range recorder.cookies {
		assert.Zero(t, n, "Action %d was sent with cookies of a previous session", i)
	}
}

func TestFormSenderFailure(t *testing.T) {
	t.Parallel()

	recorder := &actionRecorder{failPath: "/vote"}
	account, _ := newTestAccount(t, recorder, "secret")

	err := account.Upvote(context.Background(), 1)

	assert.ErrorIs(t, err, ErrBadStatus, "Only 2xx answers count as success")
}

func TestFormSenderArbitraryParams(t *testing.T) {
	t.Parallel()

	recorder := &actionRecorder{}
	_, sender := newTestAccount(t, recorder, "secret")

	err := sender.Send(context.Background(), "/xuser", map[string]string{"id": "pg", "about": "a=b&c d"})

	assert.NoError(t, err)
	assert.Equal(t, "a=b&c d", recorder.forms[0]["about"])
	assert.Equal(t, "pg", recorder.forms[0]["id"])
}

func TestNewFormSenderInvalidURL(t *testing.T) {
	t.Parallel()

	sender, err := NewFormSender(WithSiteURL("::"))

	assert.Error(t, err)
	assert.Nil(t, sender)
}
