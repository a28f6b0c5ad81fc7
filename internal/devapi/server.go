package devapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/dmitrijs2005/journify/internal/common"
	"github.com/dmitrijs2005/journify/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const (
	maxUploadSize     = 1 << 20
	minPasswordLength = 8
)

type ctxKey string

const userIDKey ctxKey = "userID"

// response mirrors the envelope the story API answers with.
type response struct {
	Error       bool            `json:"error"`
	Message     string          `json:"message"`
	LoginResult *models.Session `json:"loginResult,omitempty"`
	ListStory   []models.Story  `json:"listStory,omitempty"`
	Story       *models.Story   `json:"story,omitempty"`
}

// Server is a small in-memory implementation of the story API, used for local
// development and as the far end of gateway tests.
type Server struct {
	address  string
	secret   []byte
	tokenTTL time.Duration
	store    *memStore
	pusher   Pusher
	logger   logging.Logger
	now      func() time.Time
}

type Option func(*Server)

func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

func WithPusher(p Pusher) Option { return func(s *Server) { s.pusher = p } }

func NewServer(address string, secret []byte, tokenTTL time.Duration, l logging.Logger, opts ...Option) *Server {
	s := &Server{
		address:  address,
		secret:   secret,
		tokenTTL: tokenTTL,
		store:    newMemStore(),
		pusher:   NewHTTPPusher(nil, l),
		logger:   l.With("module", "devapi"),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler serves the API under /v1.
func (s *Server) Handler() http.Handler {
	api := chi.NewRouter()
	api.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, response{Message: "ok"})
	})
	api.Post("/register", s.handleRegister)
	api.Post("/login", s.handleLogin)
	api.Get("/images/stories/{id}", s.handlePhoto)

	api.Group(func(r chi.Router) {
		r.Use(s.requireToken)
		r.Get("/stories", s.handleListStories)
		r.Post("/stories", s.handleAddStory)
		r.Post("/notifications/subscribe", s.handleSubscribe)
		r.Delete("/notifications/subscribe", s.handleUnsubscribe)
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Mount("/v1", api)
	return r
}

func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping dev API server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting dev API server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, response{Error: true, Message: msg})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get(common.AuthorizationHeaderName), "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Missing authentication")
			return
		}
		userID, err := UserIDFromToken(token, s.secret, s.now())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		if _, ok := s.store.userByID(userID); !ok {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)
	switch {
	case name == "" || email == "":
		writeError(w, http.StatusBadRequest, "Name and email are required")
		return
	case len(req.Password) < minPasswordLength:
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	u := &user{ID: "user-" + uuid.NewString(), Name: name, Email: email}
	if err := s.store.addUser(u, req.Password); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, "Email is already taken")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info(r.Context(), "user registered", "user_id", u.ID)
	writeJSON(w, http.StatusCreated, response{Message: "User created"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	u, err := s.store.authenticate(strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	token, err := GenerateToken(u.ID, s.secret, s.tokenTTL, s.now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, response{
		Message:     "success",
		LoginResult: &models.Session{UserID: u.ID, Name: u.Name, Token: token},
	})
}

func (s *Server) handleListStories(w http.ResponseWriter, r *http.Request) {
	withLocation := r.URL.Query().Get("location") == "1"
	writeJSON(w, http.StatusOK, response{
		Message:   "Stories fetched successfully",
		ListStory: s.store.listStories(withLocation),
	})
}

func (s *Server) handleAddStory(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+4096)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Payload content length greater than maximum allowed: 1000000")
		return
	}

	description := strings.TrimSpace(r.FormValue("description"))
	if description == "" {
		writeError(w, http.StatusBadRequest, "Description is required")
		return
	}

	lat, latErr := parseCoord(r.FormValue("lat"))
	lon, lonErr := parseCoord(r.FormValue("lon"))
	if latErr != nil || lonErr != nil {
		writeError(w, http.StatusBadRequest, "lat and lon must be numbers")
		return
	}
	if lat == nil || lon == nil {
		lat, lon = nil, nil
	}

	id, err := common.MakeRandHexString(8)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	u, _ := s.store.userByID(userIDFrom(r.Context()))
	st := models.Story{
		ID:          "story-" + id,
		Name:        u.Name,
		Description: description,
		Lat:         lat,
		Lon:         lon,
		CreatedAt:   s.now().UTC(),
	}

	var photo []byte
	if f, _, err := r.FormFile("photo"); err == nil {
		photo, err = io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "Unreadable photo")
			return
		}
		st.PhotoURL = "images/stories/" + st.ID
	}

	s.store.addStory(st, photo)
	s.logger.Info(r.Context(), "story created", "story_id", st.ID, "user_id", u.ID)

	s.notifySubscribers(r.Context(), st)

	writeJSON(w, http.StatusCreated, response{Message: "Story created successfully", Story: &st})
}

func parseCoord(v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// notifySubscribers pushes a "Story created" notification to every
// subscribed endpoint without holding up the response.
func (s *Server) notifySubscribers(ctx context.Context, st models.Story) {
	endpoints := s.store.endpoints()
	if len(endpoints) == 0 || s.pusher == nil {
		return
	}
	payload := models.NotificationPayload{
		Title: "Story created",
		Body:  "New story: " + st.Description,
		Data:  models.NotificationData{URL: "/"},
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		for _, ep := range endpoints {
			if err := s.pusher.Push(ctx, ep, payload); err != nil {
				s.logger.Warn(ctx, "push delivery failed", "endpoint", ep, "err", err)
			}
		}
	}()
}

func (s *Server) handlePhoto(w http.ResponseWriter, r *http.Request) {
	b, ok := s.store.photo(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(b))
	_, _ = w.Write(b)
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var sub models.PushSubscription
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil || sub.Endpoint == "" {
		writeError(w, http.StatusBadRequest, "endpoint is required")
		return
	}
	s.store.subscribe(userIDFrom(r.Context()), sub)
	writeJSON(w, http.StatusOK, response{Message: "Success to subscribe web push notification."})
}

func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Endpoint string `json:"endpoint"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Endpoint == "" {
		writeError(w, http.StatusBadRequest, "endpoint is required")
		return
	}
	if !s.store.unsubscribe(userIDFrom(r.Context()), req.Endpoint) {
		writeError(w, http.StatusNotFound, "Subscription not found")
		return
	}
	writeJSON(w, http.StatusOK, response{Message: "Success to unsubscribe web push notification."})
}
