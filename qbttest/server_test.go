package qbttest

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHTTPClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func login(t *testing.T, c *http.Client, srv *Server, user, pass string) string {
	t.Helper()

	resp, err := c.PostForm(srv.URL+"/api/v2/auth/login", url.Values{"username": {user}, "password": {pass}})
	require.NoError(t, err)
	return readBody(t, resp)
}

func TestLoginSetsSession(t *testing.T) {
	srv := New("admin", "adminadmin")
	defer srv.Close()
	srv.Handle(http.MethodGet, "/api/v2/app/version", http.StatusOK, "v4.6.2")

	c := newHTTPClient(t)

	resp, err := c.Get(srv.URL + "/api/v2/app/version")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	readBody(t, resp)

	assert.Equal(t, "Ok.", login(t, c, srv, "admin", "adminadmin"))

	u, _ := url.Parse(srv.URL)
	cookies := c.Jar.Cookies(u)
	require.Len(t, cookies, 1)
	assert.Equal(t, "SID", cookies[0].Name)

	resp, err = c.Get(srv.URL + "/api/v2/app/version")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "v4.6.2", readBody(t, resp))
}

func TestLoginBadCredentials(t *testing.T) {
	srv := New("admin", "adminadmin")
	defer srv.Close()

	c := newHTTPClient(t)
	assert.Equal(t, "Fails.", login(t, c, srv, "admin", "guess"))

	u, _ := url.Parse(srv.URL)
	assert.Empty(t, c.Jar.Cookies(u))
}

func TestLogoutClearsSession(t *testing.T) {
	srv := New("admin", "adminadmin")
	defer srv.Close()
	srv.Handle(http.MethodGet, "/api/v2/app/version", http.StatusOK, "v4.6.2")

	c := newHTTPClient(t)
	login(t, c, srv, "admin", "adminadmin")

	resp, err := c.Post(srv.URL+"/api/v2/auth/logout", "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	readBody(t, resp)

	resp, err = c.Get(srv.URL + "/api/v2/app/version")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	readBody(t, resp)
}

func TestCannedReplies(t *testing.T) {
	srv := New("admin", "adminadmin")
	defer srv.Close()
	srv.DisableAuth()

	srv.Handle(http.MethodPost, "/api/v2/transfer/setDownloadLimit", http.StatusBadRequest, "")
	srv.HandleJSON(http.MethodGet, "/api/v2/transfer/info", map[string]any{"dl_info_speed": 1})

	c := newHTTPClient(t)

	resp, err := c.Get(srv.URL + "/api/v2/transfer/info")
	require.NoError(t, err)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"dl_info_speed":1}`, readBody(t, resp))

	resp, err = c.Post(srv.URL+"/api/v2/transfer/setDownloadLimit?limit=5", "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	readBody(t, resp)

	// registered for POST only
	resp, err = c.Get(srv.URL + "/api/v2/transfer/setDownloadLimit")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	readBody(t, resp)
}

func TestRequestsAreRecorded(t *testing.T) {
	srv := New("admin", "adminadmin")
	defer srv.Close()
	srv.DisableAuth()
	srv.Handle(http.MethodPost, "/api/v2/app/setPreferences", http.StatusOK, "")

	assert.Equal(t, Request{}, srv.LastRequest())

	c := newHTTPClient(t)
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v2/app/setPreferences?x=1",
		strings.NewReader(url.Values{"json": {`{"locale":"en"}`}}.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", srv.URL)

	resp, err := c.Do(req)
	require.NoError(t, err)
	readBody(t, resp)

	require.Len(t, srv.Requests(), 1)
	last := srv.LastRequest()
	assert.Equal(t, http.MethodPost, last.Method)
	assert.Equal(t, "/api/v2/app/setPreferences", last.Path)
	assert.Equal(t, "1", last.Query.Get("x"))
	assert.Equal(t, `{"locale":"en"}`, last.Form.Get("json"))
	assert.Equal(t, srv.URL, last.Referer)
}
