package request

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
)

// RequestOptions holds the settings of a single request
type RequestOptions struct {
	Client  *http.Client
	Body    io.Reader
	Headers map[string]string
	Ctx     context.Context
}

// RequestOption applies a setting to RequestOptions
type RequestOption func(*RequestOptions)

// WithClient sends the request through c, sharing its transport and cookie jar
func WithClient(c *http.Client) RequestOption {
	return func(o *RequestOptions) {
		o.Client = c
	}
}

// WithBody sets the request body
func WithBody(body io.Reader) RequestOption {
	return func(o *RequestOptions) {
		o.Body = body
	}
}

// WithForm sends values as an application/x-www-form-urlencoded body
func WithForm(values url.Values) RequestOption {
	return func(o *RequestOptions) {
		o.Body = strings.NewReader(values.Encode())
		WithHeader("Content-Type", "application/x-www-form-urlencoded")(o)
	}
}

// WithHeader adds a single header
func WithHeader(key, value string) RequestOption {
	return func(o *RequestOptions) {
		if o.Headers == nil {
			o.Headers = make(map[string]string)
		}
		o.Headers[key] = value
	}
}

// WithHeaders adds several headers at once
func WithHeaders(headers map[string]string) RequestOption {
	return func(o *RequestOptions) {
		if o.Headers == nil {
			o.Headers = make(map[string]string)
		}
		for k, v := range headers {
			o.Headers[k] = v
		}
	}
}

// WithContext binds the request to ctx
func WithContext(ctx context.Context) RequestOption {
	return func(o *RequestOptions) {
		o.Ctx = ctx
	}
}

// Do executes an HTTP request with the given options.
// Without WithClient a fresh non-pooled client is used.
func Do(method, url string, opts ...RequestOption) (*http.Response, error) {
	options := &RequestOptions{
		Ctx: context.Background(),
	}

	for _, opt := range opts {
		opt(options)
	}

	client := options.Client
	if client == nil {
		client = cleanhttp.DefaultClient()
	}

	req, err := http.NewRequestWithContext(options.Ctx, method, url, options.Body)
	if err != nil {
		return nil, err
	}

	for k, v := range options.Headers {
		req.Header.Set(k, v)
	}

	return client.Do(req)
}
