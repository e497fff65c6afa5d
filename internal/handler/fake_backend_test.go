package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"report_card_portal/internal/model"
)

var testAccounts = map[string]struct {
	password string
	token    string
	userID   int
}{
	"1234567890": {"admin123", "admin-token", 1},
	"2222222222": {"user123", "user-token", 2},
}

// fakeBackend is an in-memory stand-in for the REST backend
type fakeBackend struct {
	mu       sync.Mutex
	users    map[int]model.User
	cards    []model.ReportCard
	files    map[string]string
	requests []string
	patches  []map[string]any
	revoked  bool
	nextID   int
}

func newFakeBackend() *fakeBackend {
	now := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	return &fakeBackend{
		users: map[int]model.User{
			1: {ID: 1, NationalCode: "1234567890", FirstName: "Admin", LastName: "User", FatherName: "Root", Role: model.RoleAdmin, CreatedAt: now},
			2: {ID: 2, NationalCode: "2222222222", FirstName: "Sara", LastName: "Ahmadi", FatherName: "Reza", Role: model.RoleUser, CreatedAt: now},
			3: {ID: 3, NationalCode: "3333333333", FirstName: "Ali", LastName: "Karimi", FatherName: "Hassan", Role: model.RoleUser, CreatedAt: now},
		},
		files:  map[string]string{},
		nextID: 100,
	}
}

func (b *fakeBackend) addCard(card model.ReportCard, content string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if owner, ok := b.users[card.UserID]; ok {
		card.User = &model.ReportCardOwner{FirstName: owner.FirstName, LastName: owner.LastName, NationalCode: owner.NationalCode}
	}
	b.cards = append(b.cards, card)
	b.files[card.FilePath] = content
}

func (b *fakeBackend) revoke() {
	b.mu.Lock()
	b.revoked = true
	b.mu.Unlock()
}

func (b *fakeBackend) count(call string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if r == call {
			n++
		}
	}
	return n
}

func (b *fakeBackend) lastPatch() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.patches) == 0 {
		return nil
	}
	return b.patches[len(b.patches)-1]
}

func (b *fakeBackend) lastCard() model.ReportCard {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cards[len(b.cards)-1]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds model.LoginRequest
		json.NewDecoder(r.Body).Decode(&creds)
		acc, ok := testAccounts[creds.NationalCode]
		if !ok || acc.password != creds.Password {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials", "statusCode": 401})
			return
		}
		b.mu.Lock()
		user := b.users[acc.userID]
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, model.LoginResponse{AccessToken: acc.token, User: user})
	})

	mux.HandleFunc("GET /users", b.authed(func(w http.ResponseWriter, r *http.Request) {
		users := []model.User{}
		for id := 1; id < b.nextID; id++ {
			if u, ok := b.users[id]; ok {
				users = append(users, u)
			}
		}
		writeJSON(w, http.StatusOK, users)
	}))

	mux.HandleFunc("GET /users/{id}/report-cards", b.authed(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		u, ok := b.users[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "User not found"})
			return
		}
		u.ReportCards = b.cardsOf(id)
		writeJSON(w, http.StatusOK, u)
	}))

	mux.HandleFunc("PATCH /users/{id}", b.authed(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		u, ok := b.users[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "User not found"})
			return
		}
		var patch map[string]any
		json.NewDecoder(r.Body).Decode(&patch)
		b.patches = append(b.patches, patch)
		if v, ok := patch["firstName"].(string); ok {
			u.FirstName = v
		}
		if v, ok := patch["lastName"].(string); ok {
			u.LastName = v
		}
		if v, ok := patch["role"].(string); ok {
			u.Role = v
		}
		b.users[id] = u
		writeJSON(w, http.StatusOK, u)
	}))

	mux.HandleFunc("DELETE /users/{id}", b.authed(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		delete(b.users, id)
		w.WriteHeader(http.StatusOK)
	}))

	mux.HandleFunc("GET /report-cards", b.authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, append([]model.ReportCard{}, b.cards...))
	}))

	mux.HandleFunc("GET /report-cards/user/{userId}", b.authed(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("userId"))
		writeJSON(w, http.StatusOK, b.cardsOf(id))
	}))

	mux.HandleFunc("GET /report-cards/{id}", b.authed(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		for _, c := range b.cards {
			if c.ID == id {
				writeJSON(w, http.StatusOK, c)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Report card not found"})
	}))

	mux.HandleFunc("POST /report-cards", b.authed(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
			return
		}
		f, fh, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "file is required"})
			return
		}
		content, _ := io.ReadAll(f)
		userID, _ := strconv.Atoi(r.FormValue("userId"))
		uploadedBy, _ := strconv.Atoi(r.FormValue("uploadedBy"))

		b.nextID++
		card := model.ReportCard{
			ID:         b.nextID,
			UserID:     userID,
			Title:      r.FormValue("title"),
			FilePath:   "uploads/report-cards/" + fh.Filename,
			UploadedBy: uploadedBy,
			UploadedAt: time.Now(),
		}
		if d := r.FormValue("description"); d != "" {
			card.Description = &d
		}
		b.cards = append(b.cards, card)
		b.files[card.FilePath] = string(content)
		writeJSON(w, http.StatusCreated, card)
	}))

	mux.HandleFunc("DELETE /report-cards/{id}", b.authed(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		kept := b.cards[:0]
		for _, c := range b.cards {
			if c.ID != id {
				kept = append(kept, c)
			}
		}
		b.cards = kept
		writeJSON(w, http.StatusOK, map[string]any{"message": "deleted"})
	}))

	mux.HandleFunc("GET /uploads/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		content, ok := b.files[strings.TrimPrefix(r.URL.Path, "/")]
		b.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		io.WriteString(w, content)
	})

	return mux
}

// authed records the call and rejects unknown or revoked tokens; it holds the lock for next
func (b *fakeBackend) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)

		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		valid := false
		for _, acc := range testAccounts {
			if acc.token == token {
				valid = true
			}
		}
		if !valid || b.revoked {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized", "statusCode": 401})
			return
		}
		next(w, r)
	}
}

func (b *fakeBackend) cardsOf(userID int) []model.ReportCard {
	out := []model.ReportCard{}
	for _, c := range b.cards {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out
}
