package qbt

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrorCode identifies the kind of failure returned by the client
type ErrorCode string

const (
	// ErrorCodeNone indicates no error
	ErrorCodeNone ErrorCode = ""

	// ErrorCodeAuthFailed indicates the daemon rejected the credentials or the session
	ErrorCodeAuthFailed ErrorCode = "AUTH_FAILED"

	// ErrorCodeBadRequest indicates a non-2xx reply to a query or state-changing call
	ErrorCodeBadRequest ErrorCode = "BAD_REQUEST"

	// ErrorCodeBadInput indicates an unknown or invalid identifier or argument
	ErrorCodeBadInput ErrorCode = "BAD_INPUT"

	// ErrorCodeURL indicates a malformed base URL or endpoint join
	ErrorCodeURL ErrorCode = "URL"

	// ErrorCodeParseInt indicates a numeric text response that failed to parse
	ErrorCodeParseInt ErrorCode = "PARSE_INT"

	// ErrorCodeTransport indicates a connection, protocol or decoding failure
	ErrorCodeTransport ErrorCode = "TRANSPORT"
)

// Sentinels for errors.Is. A *ClientError matches the sentinel carrying the same code.
var (
	ErrAuthFailed = &ClientError{Code: ErrorCodeAuthFailed, Message: "failed to log in"}
	ErrBadRequest = &ClientError{Code: ErrorCodeBadRequest, Message: "bad request"}
	ErrBadInput   = &ClientError{Code: ErrorCodeBadInput, Message: "bad input"}
	ErrURL        = &ClientError{Code: ErrorCodeURL, Message: "invalid url"}
	ErrParseInt   = &ClientError{Code: ErrorCodeParseInt, Message: "invalid integer"}
	ErrTransport  = &ClientError{Code: ErrorCodeTransport, Message: "transport failure"}
)

// ClientError is the single error type returned by Client methods
type ClientError struct {
	Code    ErrorCode
	Message string
	// StatusCode is the HTTP status that caused the error, 0 when no response was received
	StatusCode int
	Err        error
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *ClientError with the same code.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewClientError creates a new ClientError
func NewClientError(code ErrorCode, message string, err error) *ClientError {
	return &ClientError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	if err == nil {
		return ErrorCodeNone
	}

	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Code
	}

	return ErrorCodeTransport
}

// statusError builds the error for a non-2xx reply
func statusError(code ErrorCode, statusCode int, message string, body []byte) *ClientError {
	msg := fmt.Sprintf("%s. Status: %d", message, statusCode)
	if b := strings.TrimSpace(string(body)); b != "" {
		msg = fmt.Sprintf("%s, Response: %s", msg, b)
	}

	return &ClientError{
		Code:       code,
		Message:    msg,
		StatusCode: statusCode,
	}
}

// transportError wraps a failure that happened before a usable response was read
func transportError(err error) *ClientError {
	if err == nil {
		return nil
	}

	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr
	}

	return NewClientError(ErrorCodeTransport, describeTransportError(err), err)
}

// describeTransportError names the likely cause of a network failure
func describeTransportError(err error) string {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Sprintf("failed to resolve hostname: %s", dnsErr.Name)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "dial" {
			if strings.Contains(opErr.Error(), "connection refused") {
				return "connection refused - server may be down or port is incorrect"
			}
			if strings.Contains(opErr.Error(), "no route to host") ||
				strings.Contains(opErr.Error(), "network is unreachable") {
				return "network unreachable"
			}
		}
		if opErr.Timeout() {
			return "connection timed out"
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return "request timed out"
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return "certificate verification failed"
	}

	lowerErr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lowerErr, "deadline exceeded"),
		strings.Contains(lowerErr, "timeout"):
		return "request timed out"
	case strings.Contains(lowerErr, "context canceled"):
		return "request canceled"
	case strings.Contains(lowerErr, "first record does not look like a tls handshake"),
		strings.Contains(lowerErr, "malformed http response"):
		return "protocol mismatch - check http/https in the base url"
	case strings.Contains(lowerErr, "connection refused"):
		return "connection refused - server may be down"
	}

	return "request failed"
}
