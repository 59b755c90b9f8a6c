package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"

	"landval/internal/devtoken"
	"landval/internal/domain"
	"landval/internal/logging"
)

const module = "devserver"

// Config tunes a Server. Zero values get working defaults.
type Config struct {
	Secret   []byte
	TokenTTL time.Duration
	Options  domain.ReferenceOptions
	Now      func() time.Time
	Log      logging.Logger
	// BcryptCost lets tests trade hash strength for speed.
	BcryptCost int
}

type account struct {
	username string
	email    string
	hash     []byte
}

// Server holds accounts and predictions in memory.
type Server struct {
	cfg Config

	mu          sync.RWMutex
	accounts    map[string]*account // by username
	predictions map[string][]domain.HistoryEntry
	nextID      int64
}

func New(cfg Config) *Server {
	if len(cfg.Secret) == 0 {
		cfg.Secret = []byte("landval-dev-secret")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 30 * time.Minute
	}
	if cfg.Options.Empty() {
		cfg.Options = DefaultOptions()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Log == nil {
		cfg.Log = logging.NewNop()
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &Server{
		cfg:         cfg,
		accounts:    map[string]*account{},
		predictions: map[string][]domain.HistoryEntry{},
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/options", s.handleOptions)
	r.Post("/register", s.handleRegister)
	r.Post("/token", s.handleToken)
	r.Post("/google-login", s.handleGoogleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireUser)
		r.Get("/me", s.handleMe)
		r.Post("/predict", s.handlePredict)
		r.Get("/history", s.handleHistory)
	})
	return r
}

// IssueToken signs a session token for an existing account; tests use it
// to fabricate sessions.
func (s *Server) IssueToken(username string) (string, error) {
	if _, ok := s.account(username); !ok {
		return "", errors.New("unknown account")
	}
	return s.issueToken(username)
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Options)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in domain.Registration
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeInvalid(w, fieldError{Loc: []string{"body"}, Msg: "body is not valid JSON"})
		return
	}
	var problems []fieldError
	if strings.TrimSpace(in.Username) == "" {
		problems = append(problems, fieldError{Loc: []string{"body", "username"}, Msg: "field required"})
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		problems = append(problems, fieldError{Loc: []string{"body", "email"}, Msg: "value is not a valid email address"})
	}
	if in.Password == "" {
		problems = append(problems, fieldError{Loc: []string{"body", "password"}, Msg: "field required"})
	}
	if len(problems) > 0 {
		writeInvalid(w, problems...)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.BcryptCost)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.mu.Lock()
	if _, taken := s.accounts[in.Username]; taken {
		s.mu.Unlock()
		writeDetail(w, http.StatusBadRequest, "Username already registered")
		return
	}
	s.accounts[in.Username] = &account{username: in.Username, email: in.Email, hash: hash}
	s.mu.Unlock()

	s.cfg.Log.Info(module, "account registered", map[string]any{"username": in.Username})
	writeJSON(w, http.StatusOK, map[string]string{"message": "User created successfully"})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeInvalid(w, fieldError{Loc: []string{"body"}, Msg: "body is not form encoded"})
		return
	}
	username, password := r.PostForm.Get("username"), r.PostForm.Get("password")

	acct, ok := s.account(username)
	if !ok || bcrypt.CompareHashAndPassword(acct.hash, []byte(password)) != nil {
		writeDetail(w, http.StatusBadRequest, "Incorrect username or password")
		return
	}
	s.writeGrant(w, acct.username)
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Credential string `json:"credential"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Credential == "" {
		writeInvalid(w, fieldError{Loc: []string{"body", "credential"}, Msg: "field required"})
		return
	}
	id, err := devtoken.Verify(in.Credential, s.cfg.Now)
	if err != nil {
		s.cfg.Log.Warn(module, "id token rejected", map[string]any{"error": err.Error()})
		writeDetail(w, http.StatusBadRequest, "Invalid Google token")
		return
	}

	username, err := s.accountForIdentity(id)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeGrant(w, username)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	acct, _ := s.account(userFrom(r.Context()))
	writeJSON(w, http.StatusOK, domain.User{Username: acct.username, Email: acct.email})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var sub domain.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeInvalid(w, fieldError{Loc: []string{"body"}, Msg: err.Error()})
		return
	}
	if sub.Beds < 0 || sub.Baths < 0 {
		writeInvalid(w, fieldError{Loc: []string{"body"}, Msg: "counts must not be negative"})
		return
	}

	v := price(sub, s.cfg.Options)
	username := userFrom(r.Context())

	s.mu.Lock()
	s.nextID++
	entry := domain.HistoryEntry{
		ID:             s.nextID,
		City:           sub.City,
		Neighborhood:   sub.Neighborhood,
		PropertyType:   sub.Type,
		PredictedPrice: v,
		Timestamp:      s.cfg.Now().UTC().Format(domain.HistoryTimestampLayout),
	}
	s.predictions[username] = append(s.predictions[username], entry)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"predicted_price": v,
		"formatted_price": formatPrice(v),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	username := userFrom(r.Context())

	s.mu.RLock()
	own := s.predictions[username]
	out := make([]domain.HistoryEntry, 0, len(own))
	for i := len(own) - 1; i >= 0; i-- {
		out = append(out, own[i])
	}
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) account(username string) (*account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[username]
	return a, ok
}

// accountForIdentity finds the account with id's email, creating one on first sight.
func (s *Server) accountForIdentity(id devtoken.Identity) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.email, id.Email) {
			return a.username, nil
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("federated:"+id.Email), s.cfg.BcryptCost)
	if err != nil {
		return "", err
	}
	username := id.Name
	for n := 2; s.accounts[username] != nil; n++ {
		username = id.Name + "-" + strconv.Itoa(n)
	}
	s.accounts[username] = &account{username: username, email: id.Email, hash: hash}
	return username, nil
}

func (s *Server) writeGrant(w http.ResponseWriter, username string) {
	token, err := s.issueToken(username)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, domain.TokenGrant{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.cfg.Log.Info(module, "request", map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"remote":      r.RemoteAddr,
			"status":      ww.Status(),
			"bytes":       ww.BytesWritten(),
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  middleware.GetReqID(r.Context()),
		})
	})
}
