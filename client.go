package qbt

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"

	"github.com/jfxdev/go-qbtapi/request"
)

// New creates a client for the daemon at config.BaseURL. The client keeps a
// cookie jar so the session obtained by Login is reused by every later call.
func New(config Config) (*Client, error) {
	base, err := parseBaseURL(config.BaseURL)
	if err != nil {
		return nil, err
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, NewClientError(ErrorCodeTransport, "error creating cookie jar", err)
	}

	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Jar = jar
	httpClient.Timeout = config.RequestTimeout
	if config.TLSSkipVerify {
		if t, ok := httpClient.Transport.(*http.Transport); ok {
			t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
	}

	log := config.Log
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = logrus.NewEntry(l)
	}
	if config.Debug {
		log.Logger.SetLevel(logrus.DebugLevel)
	}

	return &Client{
		baseURL: base,
		client:  httpClient,
		jar:     jar,
		log:     log,
	}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, NewClientError(ErrorCodeURL, fmt.Sprintf("invalid base url %q", raw), err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, NewClientError(ErrorCodeURL, fmt.Sprintf("base url %q must be an absolute http(s) url", raw), nil)
	}

	return u, nil
}

// BaseURL returns the URL every endpoint is resolved against.
func (qb *Client) BaseURL() string {
	qb.mu.RLock()
	defer qb.mu.RUnlock()

	return qb.baseURL.String()
}

// SetBaseURL points the client at another daemon. Cookies of the previous
// host stay in the jar but are not sent to the new one.
func (qb *Client) SetBaseURL(raw string) error {
	base, err := parseBaseURL(raw)
	if err != nil {
		return err
	}

	qb.mu.Lock()
	qb.baseURL = base
	qb.mu.Unlock()

	return nil
}

// buildURL resolves endpoint against the base URL and attaches query.
func (qb *Client) buildURL(endpoint string, query url.Values) (*url.URL, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, NewClientError(ErrorCodeURL, fmt.Sprintf("invalid endpoint %q", endpoint), err)
	}

	qb.mu.RLock()
	u := qb.baseURL.ResolveReference(ref)
	qb.mu.RUnlock()

	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	return u, nil
}

// call performs one request and returns the status code and the full body.
func (qb *Client) call(ctx context.Context, method, endpoint string, query, form url.Values) (int, []byte, error) {
	u, err := qb.buildURL(endpoint, query)
	if err != nil {
		return 0, nil, err
	}

	opts := []request.RequestOption{
		request.WithClient(qb.client),
		request.WithContext(ctx),
	}
	if form != nil {
		opts = append(opts, request.WithForm(form))
	}
	if endpoint == loginEndpoint {
		opts = append(opts, request.WithHeader("Referer", qb.BaseURL()))
	}

	resp, err := request.Do(method, u.String(), opts...)
	if err != nil {
		qb.log.WithError(err).Debugf("%s %s failed", method, endpoint)
		return 0, nil, transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, NewClientError(ErrorCodeTransport, "error reading response body", err)
	}

	qb.log.WithFields(logrus.Fields{
		"status": resp.StatusCode,
		"bytes":  len(body),
	}).Debugf("%s %s", method, endpoint)

	return resp.StatusCode, body, nil
}

// checkStatus maps a non-2xx reply to failCode. A rejected session is always
// reported as AuthFailed.
func checkStatus(status int, body []byte, failCode ErrorCode, message string) error {
	if status >= 200 && status < 300 {
		return nil
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return statusError(ErrorCodeAuthFailed, status, "session rejected", body)
	}

	return statusError(failCode, status, message, body)
}

func (qb *Client) getText(ctx context.Context, endpoint string, query url.Values, failCode ErrorCode, message string) (string, error) {
	status, body, err := qb.call(ctx, http.MethodGet, endpoint, query, nil)
	if err != nil {
		return "", err
	}

	if err := checkStatus(status, body, failCode, message); err != nil {
		return "", err
	}

	return string(body), nil
}

func (qb *Client) getJSON(ctx context.Context, endpoint string, query url.Values, failCode ErrorCode, message string, v any) error {
	status, body, err := qb.call(ctx, http.MethodGet, endpoint, query, nil)
	if err != nil {
		return err
	}

	if err := checkStatus(status, body, failCode, message); err != nil {
		return err
	}

	if err := json.NewDecoder(bytes.NewReader(body)).Decode(v); err != nil {
		return NewClientError(ErrorCodeTransport, fmt.Sprintf("error decoding %s response", endpoint), err)
	}

	return nil
}

func (qb *Client) post(ctx context.Context, endpoint string, query, form url.Values, failCode ErrorCode, message string) error {
	status, body, err := qb.call(ctx, http.MethodPost, endpoint, query, form)
	if err != nil {
		return err
	}

	return checkStatus(status, body, failCode, message)
}

const loginEndpoint = "/api/v2/auth/login"

// Login authenticates with the daemon. The session cookie is kept for later calls.
func (qb *Client) Login(ctx context.Context, username, password string) error {
	data := url.Values{
		"username": {username},
		"password": {password},
	}

	status, body, err := qb.call(ctx, http.MethodPost, loginEndpoint, nil, data)
	if err != nil {
		return err
	}

	if status < 200 || status >= 300 {
		return statusError(ErrorCodeAuthFailed, status, "login failed", body)
	}

	// the daemon answers bad credentials with 200 and "Fails."
	if bytes.HasPrefix(bytes.TrimSpace(body), []byte("Fails")) {
		return statusError(ErrorCodeAuthFailed, status, "login failed", body)
	}

	qb.log.Debug("logged in")
	return nil
}

// Logout ends the session.
func (qb *Client) Logout(ctx context.Context) error {
	return qb.post(ctx, "/api/v2/auth/logout", nil, nil, ErrorCodeBadRequest, "logout failed")
}
