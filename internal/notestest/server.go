// Package notestest runs an in-process notes API for tests. It mints real
// HS256 tokens and enforces ownership and staff rules the way the production
// API does, so client code can be exercised end to end.
package notestest

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/aretw0/notes/pkg/core"
)

const (
	tokenAccess  = "access"
	tokenRefresh = "refresh"
)

// Claims is the payload of tokens minted by the server.
type Claims struct {
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type account struct {
	user     core.User
	password string
}

type ctxKey struct{}

// Server is a fake notes API backed by memory.
type Server struct {
	*httptest.Server

	// AccessTTL is the lifetime of access tokens minted on login and refresh.
	AccessTTL time.Duration

	secret []byte
	now    func() time.Time

	mu            sync.Mutex
	accounts      []account
	notes         []core.Note
	nextUserID    int64
	nextNoteID    int64
	hits          map[string]int
	refreshStatus int
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		AccessTTL: 5 * time.Minute,
		secret:    []byte("notestest-secret"),
		now:       time.Now,
		hits:      make(map[string]int),
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.count)

	r.Post("/api/token/", s.login)
	r.Post("/api/token/refresh/", s.refresh)
	r.Post("/api/user/register/", s.register)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Get("/api/user/me/", s.currentUser)
		r.Get("/api/users/", s.listUsers)
		r.Get("/api/notes/", s.listNotes)
		r.Post("/api/notes/", s.createNote)
		r.Delete("/api/notes/delete/{id}/", s.deleteNote)
		r.Delete("/api/notes/admin/delete/{id}/", s.adminDeleteNote)
	})

	return r
}

// AddUser registers an account directly.
func (s *Server) AddUser(username, password string, staff bool) core.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(core.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: password,
	}, staff)
}

func (s *Server) addUserLocked(req core.RegisterRequest, staff bool) core.User {
	s.nextUserID++
	isStaff := staff
	u := core.User{
		ID:        s.nextUserID,
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsStaff:   &isStaff,
	}
	s.accounts = append(s.accounts, account{user: u, password: req.Password})
	return u
}

// AddNote stores a note owned by authorID.
func (s *Server) AddNote(authorID int64, title, content string) core.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addNoteLocked(authorID, title, content)
}

func (s *Server) addNoteLocked(authorID int64, title, content string) core.Note {
	s.nextNoteID++
	n := core.Note{
		ID:        s.nextNoteID,
		Title:     title,
		Content:   content,
		CreatedAt: s.now().UTC(),
		Author:    authorID,
	}
	if a := s.findAccount(authorID); a != nil {
		n.AuthorUsername = a.user.Username
	}
	s.notes = append(s.notes, n)
	return n
}

// Notes returns the stored notes in insertion order.
func (s *Server) Notes() []core.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.notes)
}

// Hits returns how many requests reached method and path.
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+path]
}

// FailRefresh makes the refresh endpoint answer with status. Zero restores
// normal behavior.
func (s *Server) FailRefresh(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshStatus = status
}

// MintAccess signs an access token for userID expiring at exp.
func (s *Server) MintAccess(userID int64, exp time.Time) string {
	return s.mint(userID, tokenAccess, exp)
}

// MintRefresh signs a refresh token for userID valid for a day.
func (s *Server) MintRefresh(userID int64) string {
	return s.mint(userID, tokenRefresh, s.now().Add(24*time.Hour))
}

func (s *Server) mint(userID int64, tokenType string, exp time.Time) string {
	claims := Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ID:        strconv.FormatInt(s.now().UnixNano(), 36),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(fmt.Sprintf("sign token: %v", err))
	}
	return signed
}

func (s *Server) parse(raw, tokenType string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("token type %q, want %q", claims.TokenType, tokenType)
	}
	return claims, nil
}

func (s *Server) findAccount(id int64) *account {
	for i := range s.accounts {
		if s.accounts[i].user.ID == id {
			return &s.accounts[i]
		}
	}
	return nil
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.Method+" "+r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			writeJSON(w, http.StatusUnauthorized, detail("Authentication credentials were not provided."))
			return
		}

		claims, err := s.parse(raw, tokenAccess)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Given token not valid for any token type",
				"code":   "token_not_valid",
			})
			return
		}

		s.mu.Lock()
		a := s.findAccount(claims.UserID)
		var u core.User
		if a != nil {
			u = a.user
		}
		s.mu.Unlock()
		if a == nil {
			writeJSON(w, http.StatusUnauthorized, detail("User not found"))
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, u)))
	})
}

func userFrom(r *http.Request) core.User {
	u, _ := r.Context().Value(ctxKey{}).(core.User)
	return u
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req core.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, detail("JSON parse error"))
		return
	}

	fields := map[string][]string{}
	if req.Username == "" {
		fields["username"] = []string{"This field may not be blank."}
	}
	if req.Password == "" {
		fields["password"] = []string{"This field may not be blank."}
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, fields)
		return
	}

	s.mu.Lock()
	var userID int64
	for _, a := range s.accounts {
		if a.user.Username == req.Username && a.password == req.Password {
			userID = a.user.ID
		}
	}
	s.mu.Unlock()

	if userID == 0 {
		writeJSON(w, http.StatusUnauthorized, detail("No active account found with the given credentials"))
		return
	}

	writeJSON(w, http.StatusOK, core.LoginResponse{
		Access:  s.MintAccess(userID, s.now().Add(s.AccessTTL)),
		Refresh: s.MintRefresh(userID),
	})
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	forced := s.refreshStatus
	s.mu.Unlock()
	if forced != 0 {
		writeJSON(w, forced, detail(http.StatusText(forced)))
		return
	}

	var req core.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Refresh == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"refresh": {"This field may not be blank."}})
		return
	}

	claims, err := s.parse(req.Refresh, tokenRefresh)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "Token is invalid or expired",
			"code":   "token_not_valid",
		})
		return
	}

	writeJSON(w, http.StatusOK, core.RefreshResponse{
		Access: s.MintAccess(claims.UserID, s.now().Add(s.AccessTTL)),
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req core.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, detail("JSON parse error"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fields := map[string][]string{}
	if req.Username == "" {
		fields["username"] = []string{"This field may not be blank."}
	}
	for _, a := range s.accounts {
		if a.user.Username == req.Username && req.Username != "" {
			fields["username"] = []string{"A user with that username already exists."}
		}
	}
	if req.Password == "" {
		fields["password"] = []string{"This field may not be blank."}
	}
	if req.Email != "" && !strings.Contains(req.Email, "@") {
		fields["email"] = []string{"Enter a valid email address."}
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, fields)
		return
	}

	writeJSON(w, http.StatusCreated, s.addUserLocked(req, false))
}

func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFrom(r))
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	if !userFrom(r).Staff() {
		writeJSON(w, http.StatusForbidden, detail("You do not have permission to perform this action."))
		return
	}

	s.mu.Lock()
	users := make([]core.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		users = append(users, a.user)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, users)
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	notes := slices.Clone(s.notes)
	s.mu.Unlock()

	slices.SortStableFunc(notes, func(a, b core.Note) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	writeJSON(w, http.StatusOK, notes)
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	var req core.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, detail("JSON parse error"))
		return
	}

	fields := map[string][]string{}
	if strings.TrimSpace(req.Title) == "" {
		fields["title"] = []string{"This field may not be blank."}
	}
	if strings.TrimSpace(req.Content) == "" {
		fields["content"] = []string{"This field may not be blank."}
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, fields)
		return
	}

	s.mu.Lock()
	n := s.addNoteLocked(userFrom(r).ID, req.Title, req.Content)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	s.remove(w, r, func(n core.Note) bool { return n.Author == user.ID })
}

func (s *Server) adminDeleteNote(w http.ResponseWriter, r *http.Request) {
	if !userFrom(r).Staff() {
		writeJSON(w, http.StatusForbidden, detail("You do not have permission to perform this action."))
		return
	}
	s.remove(w, r, func(core.Note) bool { return true })
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request, allowed func(core.Note) bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, detail("Not found."))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.notes, func(n core.Note) bool { return n.ID == id && allowed(n) })
	if idx < 0 {
		writeJSON(w, http.StatusNotFound, detail("No Note matches the given query."))
		return
	}
	s.notes = slices.Delete(s.notes, idx, idx+1)
	w.WriteHeader(http.StatusNoContent)
}

func detail(msg string) map[string]string {
	return map[string]string{"detail": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
