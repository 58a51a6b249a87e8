// Package qbttest runs an in-process fake qBittorrent daemon for tests.
//
// The server implements the login/logout session handshake (a SID cookie) and
// answers every other /api/v2 endpoint with canned replies registered through
// Handle or HandleJSON. Calls without a session get 403, as the real daemon does.
// Every request is recorded and can be inspected with Requests or LastRequest.
package qbttest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const sessionName = "SID"

// Request is a recorded call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Form   url.Values
	// Referer is the header sent by the client
	Referer string
}

// Response is a canned reply.
type Response struct {
	Status      int
	Body        string
	ContentType string
}

// Server is a fake daemon listening on a local port.
type Server struct {
	*httptest.Server

	Username string
	Password string

	store *sessions.CookieStore

	mu        sync.Mutex
	requests  []Request
	responses map[string]Response
	noAuth    bool
}

// New starts a server accepting the given credentials.
func New(username, password string) *Server {
	s := &Server{
		Username:  username,
		Password:  password,
		store:     sessions.NewCookieStore(securecookie.GenerateRandomKey(32)),
		responses: make(map[string]Response),
	}
	s.store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
	}

	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Route("/api/v2", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Post("/auth/logout", s.handleLogout)
			r.HandleFunc("/*", s.handleCanned)
		})
	})

	return r
}

// DisableAuth lets calls through without a session.
func (s *Server) DisableAuth() {
	s.mu.Lock()
	s.noAuth = true
	s.mu.Unlock()
}

// Handle registers a canned reply for method and path (e.g. "GET", "/api/v2/app/version").
func (s *Server) Handle(method, path string, status int, body string) {
	s.mu.Lock()
	s.responses[method+" "+path] = Response{Status: status, Body: body, ContentType: "text/plain; charset=UTF-8"}
	s.mu.Unlock()
}

// HandleJSON registers a 200 reply with v encoded as JSON.
func (s *Server) HandleJSON(method, path string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("qbttest: cannot encode reply for %s %s: %v", method, path, err))
	}

	s.mu.Lock()
	s.responses[method+" "+path] = Response{Status: http.StatusOK, Body: string(data), ContentType: "application/json"}
	s.mu.Unlock()
}

// Requests returns every recorded call in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent call, or the zero Request.
func (s *Server) LastRequest() Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.requests) == 0 {
		return Request{}
	}
	return s.requests[len(s.requests)-1]
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:  r.Method,
			Path:    r.URL.Path,
			Query:   r.URL.Query(),
			Form:    r.PostForm,
			Referer: r.Header.Get("Referer"),
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		noAuth := s.noAuth
		s.mu.Unlock()

		if !noAuth {
			session, err := s.store.Get(r, sessionName)
			if err != nil || session.IsNew || session.Values["user"] == nil {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.writeCanned(w, r) {
		return
	}

	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	// the real daemon answers bad credentials with 200 "Fails."
	if username != s.Username || password != s.Password {
		w.Write([]byte("Fails."))
		return
	}

	session, _ := s.store.Get(r, sessionName)
	session.Values["user"] = username
	if err := session.Save(r, w); err != nil {
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	w.Write([]byte("Ok."))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session, _ := s.store.Get(r, sessionName)
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		http.Error(w, "Failed to clear session", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleCanned(w http.ResponseWriter, r *http.Request) {
	if !s.writeCanned(w, r) {
		http.NotFound(w, r)
	}
}

func (s *Server) writeCanned(w http.ResponseWriter, r *http.Request) bool {
	s.mu.Lock()
	resp, ok := s.responses[r.Method+" "+r.URL.Path]
	s.mu.Unlock()

	if !ok {
		return false
	}

	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.WriteHeader(resp.Status)
	w.Write([]byte(resp.Body))
	return true
}
