// Package liveview implements the optional live-viewer supplement
// described in SPEC_FULL.md §3.2: a read-only websocket broadcast of the
// bytes a recording session is producing, adapted from the teacher's
// WebUI server but stripped down to a single one-directional relay —
// it never parses or reinterprets the byte stream it forwards, and it
// accepts no input back into the session.
package liveview

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/crypto/bcrypt"

	"script-tty/internal/config"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host
	},
}

// Server broadcasts recorder output to any number of connected, read-only
// viewers.
type Server struct {
	mu           sync.Mutex
	viewers      map[*websocket.Conn]struct{}
	authSessions map[string]time.Time
	cfg          *config.Config
}

func New(cfg *config.Config) *Server {
	return &Server{
		viewers:      make(map[*websocket.Conn]struct{}),
		authSessions: make(map[string]time.Time),
		cfg:          cfg,
	}
}

// Broadcast forwards one chunk of pty output to every connected viewer.
// Install it as the recorder Loop's Tap to stream a session live.
func (s *Server) Broadcast(chunk []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.viewers {
		if err := conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
			conn.Close()
			delete(s.viewers, conn)
		}
	}
}

// ListenAndServe starts the HTTP server serving the viewer page, login
// flow, and websocket endpoint. It blocks until the server stops.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/setup-password", s.handleSetupPassword)
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/ws", s.handleWS)

	log.Printf("live viewer listening on http://%s\n", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !s.isAuthenticated(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("liveview: upgrade failed: %v\n", err)
		return
	}
	s.mu.Lock()
	s.viewers[conn] = struct{}{}
	s.mu.Unlock()

	// The socket is write-only from the server's side; drain and discard
	// anything a viewer sends so reads don't pile up.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.mu.Lock()
	delete(s.viewers, conn)
	s.mu.Unlock()
	conn.Close()
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	if s.cfg == nil || s.cfg.LiveViewPasswordHash == "" {
		fmt.Fprint(w, setupHTML(""))
		return
	}
	if !s.isAuthenticated(r) {
		fmt.Fprint(w, loginHTML(""))
		return
	}
	fmt.Fprint(w, viewerHTML)
}

func (s *Server) handleSetupPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.cfg != nil && s.cfg.LiveViewPasswordHash != "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	password := r.FormValue("password")
	if password == "" || password != r.FormValue("confirm") {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, setupHTML("Passwords must match and not be empty"))
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if s.cfg == nil {
		s.cfg = &config.Config{}
	}
	s.cfg.LiveViewPasswordHash = string(hash)
	if err := config.Save(s.cfg); err != nil {
		log.Printf("liveview: could not save config: %v\n", err)
	}
	s.setSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.cfg == nil || s.cfg.LiveViewPasswordHash == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(s.cfg.LiveViewPasswordHash), []byte(r.FormValue("password"))) != nil {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, loginHTML("Invalid password"))
		return
	}
	s.setSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) setSessionCookie(w http.ResponseWriter) {
	token := randomToken()
	s.mu.Lock()
	s.authSessions[token] = time.Now().Add(24 * time.Hour)
	s.mu.Unlock()
	http.SetCookie(w, &http.Cookie{
		Name: "session", Value: token, Path: "/",
		HttpOnly: true, SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) isAuthenticated(r *http.Request) bool {
	cookie, err := r.Cookie("session")
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.authSessions[cookie.Value]
	if !ok || time.Now().After(expiry) {
		delete(s.authSessions, cookie.Value)
		return false
	}
	return true
}

func randomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return hex.EncodeToString(b)
}
