package qbt

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jfxdev/go-qbtapi/qbttest"
)

const (
	testUser = "admin"
	testPass = "adminadmin"
)

// newLoggedInClient starts a fake daemon and returns a client with a session.
func newLoggedInClient(t *testing.T) (*qbttest.Server, *Client) {
	t.Helper()

	srv := qbttest.New(testUser, testPass)
	t.Cleanup(srv.Close)

	client, err := New(Config{BaseURL: srv.URL, RequestTimeout: 5 * time.Second})
	require.NoError(t, err)
	require.NoError(t, client.Login(context.Background(), testUser, testPass))

	return srv, client
}

func TestNewClient(t *testing.T) {
	client, err := New(Config{
		BaseURL:        "http://localhost:8080",
		RequestTimeout: 30 * time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", client.BaseURL())
	assert.Equal(t, 30*time.Second, client.client.Timeout)
	assert.NotNil(t, client.client.Jar)
	assert.NotNil(t, client.log)
}

func TestNewClientDefaults(t *testing.T) {
	client, err := New(Config{BaseURL: "https://qbt.example.com"})
	require.NoError(t, err)

	assert.Zero(t, client.client.Timeout, "no timeout unless configured")
	assert.Equal(t, logrus.InfoLevel, client.log.Logger.GetLevel())
}

func TestNewClientDebug(t *testing.T) {
	logger := logrus.New()
	client, err := New(Config{BaseURL: "http://localhost:8080", Debug: true, Log: logrus.NewEntry(logger)})
	require.NoError(t, err)

	assert.Same(t, logger, client.log.Logger)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestNewClientInvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8080", "://missing-scheme", "ftp://localhost", "http://"} {
		t.Run(raw, func(t *testing.T) {
			_, err := New(Config{BaseURL: raw})
			require.Error(t, err)
			assert.Equal(t, ErrorCodeURL, GetErrorCode(err))
			assert.ErrorIs(t, err, ErrURL)
		})
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		endpoint string
		expected string
	}{
		{"http://localhost:8080", "/api/v2/app/version", "http://localhost:8080/api/v2/app/version"},
		{"http://localhost:8080/", "/api/v2/app/version", "http://localhost:8080/api/v2/app/version"},
		{"https://10.0.0.2:443/qbt/", "/api/v2/sync/maindata", "https://10.0.0.2:443/api/v2/sync/maindata"},
		{"http://localhost:8080/qbt/", "api/v2/app/version", "http://localhost:8080/qbt/api/v2/app/version"},
	}

	for _, tt := range tests {
		t.Run(tt.base+tt.endpoint, func(t *testing.T) {
			client, err := New(Config{BaseURL: tt.base})
			require.NoError(t, err)

			u, err := client.buildURL(tt.endpoint, nil)
			require.NoError(t, err)
			assert.True(t, u.IsAbs())
			assert.Equal(t, tt.expected, u.String())
		})
	}
}

func TestBuildURLWithQuery(t *testing.T) {
	client, err := New(Config{BaseURL: "http://localhost:8080"})
	require.NoError(t, err)

	u, err := client.buildURL("/api/v2/log/peers", map[string][]string{"last_known_id": {"-1"}})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/v2/log/peers?last_known_id=-1", u.String())
}

func TestSetBaseURL(t *testing.T) {
	client, err := New(Config{BaseURL: "http://localhost:8080"})
	require.NoError(t, err)

	require.NoError(t, client.SetBaseURL("http://10.0.0.5:9090"))
	assert.Equal(t, "http://10.0.0.5:9090", client.BaseURL())

	err = client.SetBaseURL("not a url")
	assert.ErrorIs(t, err, ErrURL)
	assert.Equal(t, "http://10.0.0.5:9090", client.BaseURL(), "failed update keeps the old url")
}

func TestLogin(t *testing.T) {
	srv, client := newLoggedInClient(t)

	login := srv.Requests()[0]
	assert.Equal(t, http.MethodPost, login.Method)
	assert.Equal(t, "/api/v2/auth/login", login.Path)
	assert.Equal(t, testUser, login.Form.Get("username"))
	assert.Equal(t, testPass, login.Form.Get("password"))
	assert.Equal(t, srv.URL, login.Referer)

	// the session cookie is reused by later calls
	srv.Handle(http.MethodGet, "/api/v2/app/version", http.StatusOK, "v4.6.2")
	version, err := client.ApplicationVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v4.6.2", version)
}

func TestLoginWrongCredentials(t *testing.T) {
	srv := qbttest.New(testUser, testPass)
	defer srv.Close()

	client, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	err = client.Login(context.Background(), testUser, "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.Equal(t, ErrorCodeAuthFailed, GetErrorCode(err))

	// no session was created
	_, err = client.ApplicationVersion(context.Background())
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestLoginRejectedStatus(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := qbttest.New(testUser, testPass)
		srv.Handle(http.MethodPost, "/api/v2/auth/login", status, "Your IP address has been banned")

		client, err := New(Config{BaseURL: srv.URL})
		require.NoError(t, err)

		err = client.Login(context.Background(), testUser, testPass)
		var clientErr *ClientError
		require.ErrorAs(t, err, &clientErr)
		assert.Equal(t, ErrorCodeAuthFailed, clientErr.Code)
		assert.Equal(t, status, clientErr.StatusCode)

		srv.Close()
	}
}

func TestCallWithoutSession(t *testing.T) {
	srv := qbttest.New(testUser, testPass)
	defer srv.Close()
	srv.HandleJSON(http.MethodGet, "/api/v2/torrents/info", []Torrent{})

	client, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.TorrentList(context.Background(), DefaultTorrentListParams())
	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, ErrorCodeAuthFailed, clientErr.Code)
	assert.Equal(t, http.StatusForbidden, clientErr.StatusCode)
}

func TestLogout(t *testing.T) {
	srv, client := newLoggedInClient(t)
	srv.Handle(http.MethodGet, "/api/v2/app/version", http.StatusOK, "v4.6.2")

	require.NoError(t, client.Logout(context.Background()))
	assert.Equal(t, "/api/v2/auth/logout", srv.LastRequest().Path)

	_, err := client.ApplicationVersion(context.Background())
	assert.ErrorIs(t, err, ErrAuthFailed, "session is gone after logout")
}

func TestTransportError(t *testing.T) {
	srv := qbttest.New(testUser, testPass)
	client, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	srv.Close()

	err = client.Login(context.Background(), testUser, testPass)
	require.Error(t, err)
	assert.Equal(t, ErrorCodeTransport, GetErrorCode(err))
	assert.NotNil(t, errors.Unwrap(err))
}

func TestContextCanceled(t *testing.T) {
	_, client := newLoggedInClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ApplicationVersion(ctx)
	require.Error(t, err)
	assert.Equal(t, ErrorCodeTransport, GetErrorCode(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConcurrentCalls(t *testing.T) {
	srv, client := newLoggedInClient(t)
	srv.Handle(http.MethodGet, "/api/v2/app/version", http.StatusOK, "v4.6.2")
	srv.Handle(http.MethodGet, "/api/v2/app/webapiVersion", http.StatusOK, "2.9.3")

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 16; i++ {
		i := i
		g.Go(func() error {
			if i%2 == 0 {
				_, err := client.ApplicationVersion(ctx)
				return err
			}
			_, err := client.APIVersion(ctx)
			return err
		})
	}
	g.Go(func() error {
		return client.SetBaseURL(srv.URL)
	})

	require.NoError(t, g.Wait())
	assert.Len(t, srv.Requests(), 1+16)
}
