package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// User is a record in the sample user store.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateUserRequest is the body of POST /api/users.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// validate returns the names of invalid fields, empty when the request is
// acceptable.
func (req CreateUserRequest) validate() []string {
	var fields []string
	if strings.TrimSpace(req.Name) == "" {
		fields = append(fields, "name")
	}
	if !emailPattern.MatchString(req.Email) {
		fields = append(fields, "email")
	}
	return fields
}

// userStore is the in-memory store backing the sample user API. It is the
// only mutable cross-request state in the server and guards itself with a
// mutex; email uniqueness is enforced under the same lock as the insert.
type userStore struct {
	mu      sync.RWMutex
	byID    map[string]User
	byEmail map[string]string
}

func newUserStore() *userStore {
	return &userStore{
		byID:    make(map[string]User),
		byEmail: make(map[string]string),
	}
}

// insert adds a user, reporting false when the email is already taken.
func (s *userStore) insert(u User) bool {
	key := strings.ToLower(u.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[key]; exists {
		return false
	}
	s.byID[u.ID] = u
	s.byEmail[key] = u.ID
	return true
}

func (s *userStore) get(id string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	return u, ok
}

func (s *userStore) list() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]User, 0, len(s.byID))
	for _, u := range s.byID {
		users = append(users, u)
	}
	return users
}

// userHandlers is the /api/users handler group.
type userHandlers struct {
	store  *userStore
	logger *slog.Logger
}

func newUserHandlers(logger *slog.Logger) *userHandlers {
	return &userHandlers{
		store:  newUserStore(),
		logger: logger,
	}
}

func (h *userHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", nil)
		return
	}

	if fields := req.validate(); len(fields) > 0 {
		writeError(w, http.StatusBadRequest, "invalid field(s): "+strings.Join(fields, ", "), fields)
		return
	}

	user := User{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: time.Now().UTC(),
	}

	if !h.store.insert(user) {
		writeError(w, http.StatusConflict, "a user with this email already exists", []string{"email"})
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *userHandlers) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, ok := h.store.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "user not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *userHandlers) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.list())
}
