package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connorpodea/EQLE/internal/config"
	"github.com/connorpodea/EQLE/internal/engine"
	"github.com/connorpodea/EQLE/internal/kv"
)

// newTestClient spins up the server and a cookie-carrying client so the
// anonymous identity persists across requests.
func newTestClient(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	s := New(kv.NewMemoryStore(), config.Default())
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return ts, &http.Client{Jar: jar}
}

func postJSON(t *testing.T, c *http.Client, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := c.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return res
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	defer res.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	ts, c := newTestClient(t)
	res, err := c.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestGameFlow(t *testing.T) {
	ts, c := newTestClient(t)

	// A valid (if probably wrong) guess, typed key by key.
	for _, ch := range []string{"1", "0", "+", "1", "0", "=", "2", "0"} {
		res := postJSON(t, c, ts.URL+"/game/key", keyReq{Char: ch})
		require.Equal(t, http.StatusOK, res.StatusCode)
		res.Body.Close()
	}

	res := postJSON(t, c, ts.URL+"/game/submit", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	out := decode[engine.Outcome](t, res)
	assert.True(t, out.Accepted)
	assert.Len(t, out.Tiles, 8)

	// Progress shows up in the snapshot.
	res, err := c.Get(ts.URL + "/game/state")
	require.NoError(t, err)
	snap := decode[engine.Snapshot](t, res)
	assert.Equal(t, 1, snap.Row)
	assert.Equal(t, "10+10=20", snap.Guesses[0].Chars)
}

func TestRejectionsMapToStatusCodes(t *testing.T) {
	ts, c := newTestClient(t)

	// Invalid character.
	res := postJSON(t, c, ts.URL+"/game/key", keyReq{Char: "x"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	body := decode[errBody](t, res)
	assert.Equal(t, engine.ReasonInvalidCharacter, body.Error)

	// Submit before the row is full.
	res = postJSON(t, c, ts.URL+"/game/submit", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	body = decode[errBody](t, res)
	assert.Equal(t, engine.ReasonIncompleteInput, body.Error)

	// Delete on an empty row.
	res = postJSON(t, c, ts.URL+"/game/delete", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestTodayAndStats(t *testing.T) {
	ts, c := newTestClient(t)

	res, err := c.Get(ts.URL + "/game/today")
	require.NoError(t, err)
	today := decode[todayRes](t, res)
	assert.True(t, today.CanPlay)
	assert.Len(t, today.State.Guesses, 6)

	res, err = c.Get(ts.URL + "/stats")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestGuestsAreIsolated(t *testing.T) {
	ts, a := newTestClient(t)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	b := &http.Client{Jar: jar}

	res := postJSON(t, a, ts.URL+"/game/key", keyReq{Char: "1"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	// A different client has its own untouched grid.
	res, err = b.Get(ts.URL + "/game/state")
	require.NoError(t, err)
	snap := decode[engine.Snapshot](t, res)
	assert.Equal(t, 0, snap.Col)
}

func TestAuthFlow(t *testing.T) {
	ts, c := newTestClient(t)

	res := postJSON(t, c, ts.URL+"/auth/signup", signupReq{Username: "connor", Password: "hunter2hunter2"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	// Cookie from signup authenticates /auth/me.
	res, err := c.Get(ts.URL + "/auth/me")
	require.NoError(t, err)
	me := decode[authUser](t, res)
	assert.Equal(t, "connor", me.Username)

	// Duplicate signup conflicts.
	res = postJSON(t, c, ts.URL+"/auth/signup", signupReq{Username: "connor", Password: "hunter2hunter2"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	res.Body.Close()

	// Wrong password is rejected.
	res = postJSON(t, c, ts.URL+"/auth/login", loginReq{Username: "connor", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	res.Body.Close()

	res = postJSON(t, c, ts.URL+"/auth/login", loginReq{Username: "connor", Password: "hunter2hunter2"})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()
}

func TestErrorResponsesAreJSON(t *testing.T) {
	ts, c := newTestClient(t)

	// Rejected game input.
	res := postJSON(t, c, ts.URL+"/game/key", keyReq{Char: "x"})
	assert.Contains(t, res.Header.Get("Content-Type"), "application/json")
	res.Body.Close()

	// Malformed payload.
	res, err := c.Post(ts.URL+"/game/key", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "application/json")
	res.Body.Close()

	// Missing auth.
	res, err = c.Get(ts.URL + "/auth/me")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "application/json")
	body := decode[map[string]string](t, res)
	assert.Equal(t, "Unauthorized", body["error"])

	// Unknown route.
	res, err = c.Get(ts.URL + "/nope")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "application/json")
	res.Body.Close()
}

func TestRequireAuthWithoutToken(t *testing.T) {
	ts, _ := newTestClient(t)
	res, err := http.Get(ts.URL + "/auth/me")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}
