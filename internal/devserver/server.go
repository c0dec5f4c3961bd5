// Package devserver is an in-memory implementation of the storefront
// backend API. It backs cmd/devserver for local development and the
// integration tests; it keeps no persistent state and opens no real
// payment sessions.
package devserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	storefront "github.com/savorline/storefront-client"
)

// VerifyCode is the fixed email/OTP verification code the mock accepts.
const VerifyCode = "123456"

type account struct {
	user     storefront.User
	password string
	verified bool
}

type refreshRecord struct {
	userID string
	used   bool
}

// Server holds the full mock backend state behind one mutex. Handlers are
// small enough that a single lock is simpler than per-collection locking.
type Server struct {
	mu sync.Mutex

	accounts map[string]*account // keyed by email
	access   map[string]string   // access token -> user id
	refresh  map[string]*refreshRecord

	menu          []storefront.MenuItem
	carts         map[string][]storefront.CartItem // user id -> lines
	addresses     map[string][]storefront.Address
	orders        []storefront.Order
	restaurants   map[string]storefront.Restaurant // owner id -> restaurant
	reviews       map[string]storefront.Review     // order id -> review
	notifications map[string][]storefront.Notification

	failRefresh bool
	hits        map[string]int

	router *mux.Router
}

// New creates an empty mock backend.
func New() *Server {
	s := &Server{
		accounts:      make(map[string]*account),
		access:        make(map[string]string),
		refresh:       make(map[string]*refreshRecord),
		carts:         make(map[string][]storefront.CartItem),
		addresses:     make(map[string][]storefront.Address),
		restaurants:   make(map[string]storefront.Restaurant),
		reviews:       make(map[string]storefront.Review),
		notifications: make(map[string][]storefront.Notification),
		hits:          make(map[string]int),
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.Method+" "+r.URL.Path]++
	s.mu.Unlock()
	s.router.ServeHTTP(w, r)
}

// =============================================================================
// Test and seeding knobs
// =============================================================================

// Hits returns how many requests arrived for "METHOD /path".
func (s *Server) Hits(methodAndPath string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[methodAndPath]
}

// RevokeAccessTokens invalidates every issued access token while leaving
// refresh tokens valid, simulating access-token expiry on the server side.
func (s *Server) RevokeAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = make(map[string]string)
}

// RevokeAllTokens invalidates both access and refresh tokens, simulating a
// fully rejected persisted session.
func (s *Server) RevokeAllTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = make(map[string]string)
	s.refresh = make(map[string]*refreshRecord)
}

// SetFailRefresh makes the refresh endpoint reject every exchange.
func (s *Server) SetFailRefresh(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failRefresh = fail
}

// SeedMenu replaces the menu fixtures.
func (s *Server) SeedMenu(items []storefront.MenuItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menu = append([]storefront.MenuItem(nil), items...)
}

// SeedUser creates a verified account and returns its id.
func (s *Server) SeedUser(name, email, password string, role storefront.Role) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.accounts[email] = &account{
		user:     storefront.User{ID: id, Name: name, Email: email, Role: role},
		password: password,
		verified: true,
	}
	return id
}

// IssueTokens mints a token pair for an existing account, as a login would.
func (s *Server) IssueTokens(email string) (access, refresh string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, found := s.accounts[email]
	if !found {
		return "", "", false
	}
	access, refresh = s.issueLocked(acct.user.ID)
	return access, refresh, true
}

// PushNotification appends a notification for a user.
func (s *Server) PushNotification(userID, title, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[userID] = append(s.notifications[userID], storefront.Notification{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  title,
		Body:   body,
	})
}

// issueLocked mints a token pair. Caller holds s.mu.
func (s *Server) issueLocked(userID string) (access, refresh string) {
	access = "acc-" + uuid.NewString()
	refresh = "ref-" + uuid.NewString()
	s.access[access] = userID
	s.refresh[refresh] = &refreshRecord{userID: userID}
	return access, refresh
}

// =============================================================================
// Envelope and auth helpers
// =============================================================================

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: false, Message: msg})
}

// writeBare emits the payload without the success envelope. A couple of
// legacy endpoints respond this way and clients must cope.
func writeBare(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func decodeBody(r *http.Request, into any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(into)
}

// authedUser resolves the bearer token to a user, or writes a 401.
func (s *Server) authedUser(w http.ResponseWriter, r *http.Request) (storefront.User, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.access[token]
	if token == "" || !ok {
		writeErr(w, http.StatusUnauthorized, "invalid or expired token")
		return storefront.User{}, false
	}
	for _, acct := range s.accounts {
		if acct.user.ID == userID {
			return acct.user, true
		}
	}
	writeErr(w, http.StatusUnauthorized, "unknown user")
	return storefront.User{}, false
}
