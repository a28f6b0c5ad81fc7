package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/dmitrijs2005/journify/internal/common"
	"github.com/dmitrijs2005/journify/internal/logging"
	"github.com/dmitrijs2005/journify/internal/platform"
)

const (
	QueuedSubscribeMessage   = "Subscription queued for sync when online."
	QueuedUnsubscribeMessage = "Unsubscription queued for sync when online."
)

type HTTPClient struct {
	baseURL  string
	http     *http.Client
	session  *SessionStore
	cache    *ResponseCache
	conn     platform.Connectivity
	registry SyncRegistrar
	log      logging.Logger
}

// Options wires an HTTPClient. HTTP defaults to a client without a timeout;
// Cache, Conn and Registry may be nil.
type Options struct {
	BaseURL  string
	HTTP     *http.Client
	Session  *SessionStore
	Cache    *ResponseCache
	Conn     platform.Connectivity
	Registry SyncRegistrar
	Logger   logging.Logger
}

func NewHTTPClient(o Options) *HTTPClient {
	hc := o.HTTP
	if hc == nil {
		hc = &http.Client{}
	}
	log := o.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &HTTPClient{
		baseURL:  strings.TrimRight(o.BaseURL, "/"),
		http:     hc,
		session:  o.Session,
		cache:    o.Cache,
		conn:     o.Conn,
		registry: o.Registry,
		log:      log.With("component", "gateway"),
	}
}

// SetRegistry replaces the background-sync registrar.
func (c *HTTPClient) SetRegistry(r SyncRegistrar) { c.registry = r }

// apiResponse is the envelope every API endpoint returns.
type apiResponse struct {
	Error       bool            `json:"error"`
	Message     string          `json:"message"`
	LoginResult *models.Session `json:"loginResult,omitempty"`
	ListStory   []models.Story  `json:"listStory,omitempty"`
	Story       *models.Story   `json:"story,omitempty"`
}

func (c *HTTPClient) url(path string) string { return c.baseURL + path }

func (c *HTTPClient) online() bool {
	return c.conn == nil || c.conn.IsOnline()
}

// do sends req and decodes the envelope. raw is the body as received.
func (c *HTTPClient) do(req *http.Request, op string, read bool) (resp *apiResponse, raw []byte, err error) {
	res, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	defer res.Body.Close()

	raw, err = io.ReadAll(res.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: read body: %w", op, err)
	}

	ok := res.StatusCode >= 200 && res.StatusCode < 300

	if looksLikeHTML(raw) {
		kind := ErrRequestFailed
		if !ok {
			kind = classifyStatus(res.StatusCode, read)
		}
		return nil, raw, &HTTPError{Op: op, StatusCode: res.StatusCode, Message: htmlSummary(raw), Kind: kind}
	}

	var body apiResponse
	if len(bytes.TrimSpace(raw)) > 0 {
		if jerr := json.Unmarshal(raw, &body); jerr != nil {
			kind := ErrRequestFailed
			if !ok {
				kind = classifyStatus(res.StatusCode, read)
			}
			return nil, raw, &HTTPError{Op: op, StatusCode: res.StatusCode, Message: "invalid response body", Kind: kind}
		}
	}

	if !ok {
		return nil, raw, &HTTPError{Op: op, StatusCode: res.StatusCode, Message: body.Message, Kind: classifyStatus(res.StatusCode, read)}
	}
	if body.Error {
		return nil, raw, &HTTPError{Op: op, StatusCode: res.StatusCode, Message: body.Message, Kind: ErrRequestFailed}
	}
	return &body, raw, nil
}

// clearOnExpiry drops the stored session when err is an auth expiry.
func (c *HTTPClient) clearOnExpiry(ctx context.Context, err error) {
	if !errors.Is(err, ErrAuthExpired) || c.session == nil {
		return
	}
	if cerr := c.session.Clear(ctx); cerr != nil {
		c.log.Error(ctx, "failed to clear expired session", "err", cerr)
	}
}

func (c *HTTPClient) token(ctx context.Context) (string, error) {
	if c.session == nil {
		return "", ErrNotAuthenticated
	}
	return c.session.Token(ctx)
}

func (c *HTTPClient) postJSON(ctx context.Context, path, op string, in any) (*apiResponse, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, _, err := c.do(req, op, false)
	return resp, err
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) error {
	_, err := c.postJSON(ctx, "/register", "register", map[string]string{
		"name": name, "email": email, "password": password,
	})
	return err
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	resp, err := c.postJSON(ctx, "/login", "login", map[string]string{
		"email": email, "password": password,
	})
	if err != nil {
		return nil, err
	}
	if resp.LoginResult == nil || resp.LoginResult.Token == "" {
		return nil, &HTTPError{Op: "login", StatusCode: http.StatusOK, Message: "missing loginResult", Kind: ErrRequestFailed}
	}
	return resp.LoginResult, nil
}

func (c *HTTPClient) SubmitStory(ctx context.Context, p models.AddStoryPayload) (*models.Story, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	body, contentType, err := storyForm(p)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/stories"), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	req.Header.Set("Content-Type", contentType)

	resp, _, err := c.do(req, "submit story", false)
	if err != nil {
		c.clearOnExpiry(ctx, err)
		return nil, err
	}

	if resp.Story != nil {
		s := c.fixPhotoURL(*resp.Story)
		return &s, nil
	}
	return &models.Story{Description: p.Description, Lat: p.Lat, Lon: p.Lon}, nil
}

func storyForm(p models.AddStoryPayload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("description", p.Description); err != nil {
		return nil, "", err
	}
	if p.Lat != nil && p.Lon != nil {
		if err := w.WriteField("lat", strconv.FormatFloat(*p.Lat, 'f', -1, 64)); err != nil {
			return nil, "", err
		}
		if err := w.WriteField("lon", strconv.FormatFloat(*p.Lon, 'f', -1, 64)); err != nil {
			return nil, "", err
		}
	}
	if p.PhotoPath != "" {
		f, err := os.Open(p.PhotoPath)
		if err != nil {
			return nil, "", fmt.Errorf("open photo: %w", err)
		}
		defer f.Close()
		part, err := w.CreateFormFile("photo", filepath.Base(p.PhotoPath))
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f); err != nil {
			return nil, "", fmt.Errorf("read photo: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func (c *HTTPClient) ListStories(ctx context.Context) ([]models.Story, error) {
	return c.listStories(ctx, c.url("/stories"), false)
}

func (c *HTTPClient) ListStoriesWithLocation(ctx context.Context) ([]models.Story, error) {
	return c.listStories(ctx, c.url("/stories?location=1"), true)
}

func (c *HTTPClient) listStories(ctx context.Context, requestURL string, cached bool) ([]models.Story, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	stories, err := c.fetchStories(ctx, requestURL, token, cached)
	if err == nil {
		return stories, nil
	}

	if errors.Is(err, ErrAuthExpired) || errors.Is(err, ErrNotAuthenticated) || errors.Is(err, context.Canceled) {
		return nil, err
	}

	network := IsNetworkError(err)
	if network {
		c.registerSync(ctx)
	}

	if stories, ok := c.cachedStories(ctx, requestURL); ok {
		c.log.Info(ctx, "serving stories from cache", "url", requestURL, "err", err)
		return stories, nil
	}

	if !c.online() || network {
		c.log.Info(ctx, "offline, returning no stories", "url", requestURL)
		return []models.Story{}, nil
	}
	return nil, err
}

func (c *HTTPClient) fetchStories(ctx context.Context, requestURL, token string, cached bool) ([]models.Story, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)

	resp, raw, err := c.do(req, "list stories", true)
	if err != nil {
		c.clearOnExpiry(ctx, err)
		return nil, err
	}

	if cached && c.cache != nil {
		if cerr := c.cache.Store(ctx, requestURL, raw); cerr != nil {
			c.log.Warn(ctx, "failed to cache stories", "url", requestURL, "err", cerr)
		}
	}

	return c.fixPhotoURLs(resp.ListStory), nil
}

func (c *HTTPClient) cachedStories(ctx context.Context, requestURL string) ([]models.Story, bool) {
	if c.cache == nil {
		return nil, false
	}
	raw, ok, err := c.cache.Lookup(ctx, requestURL)
	if err != nil {
		c.log.Warn(ctx, "failed to read stories cache", "url", requestURL, "err", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var body apiResponse
	if err := json.Unmarshal(raw, &body); err != nil || body.Error {
		return nil, false
	}
	return c.fixPhotoURLs(body.ListStory), true
}

func (c *HTTPClient) registerSync(ctx context.Context) {
	if c.registry == nil {
		return
	}
	if err := c.registry.RegisterSync(ctx, SyncTagStories); err != nil {
		c.log.Warn(ctx, "background sync registration failed", "err", err)
	}
}

func (c *HTTPClient) fixPhotoURLs(in []models.Story) []models.Story {
	out := make([]models.Story, 0, len(in))
	for _, s := range in {
		out = append(out, c.fixPhotoURL(s))
	}
	return out
}

func (c *HTTPClient) fixPhotoURL(s models.Story) models.Story {
	if s.PhotoURL != "" && !strings.HasPrefix(s.PhotoURL, "http") {
		if !strings.HasPrefix(s.PhotoURL, "/") {
			s.PhotoURL = "/" + s.PhotoURL
		}
		s.PhotoURL = c.baseURL + s.PhotoURL
	}
	return s
}

func (c *HTTPClient) Subscribe(ctx context.Context, sub models.PushSubscription) (string, error) {
	return c.subscription(ctx, http.MethodPost, "subscribe", sub, QueuedSubscribeMessage)
}

func (c *HTTPClient) Unsubscribe(ctx context.Context, endpoint string) (string, error) {
	return c.subscription(ctx, http.MethodDelete, "unsubscribe", map[string]string{"endpoint": endpoint}, QueuedUnsubscribeMessage)
}

func (c *HTTPClient) subscription(ctx context.Context, method, op string, in any, queued string) (string, error) {
	token, err := c.token(ctx)
	if err != nil {
		return "", err
	}
	if !c.online() {
		return queued, nil
	}

	b, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url("/notifications/subscribe"), bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, _, err := c.do(req, op, false)
	if err != nil {
		c.clearOnExpiry(ctx, err)
		return "", err
	}
	return resp.Message, nil
}

// Ping reports whether the API host answers at all. Gateway errors (5xx)
// count as unreachable.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	_, _ = io.Copy(io.Discard, res.Body)
	res.Body.Close()
	if res.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, res.StatusCode)
	}
	return nil
}
