package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/mamacare/companion/internal/config"
	"github.com/mamacare/companion/internal/logger"
	"github.com/mamacare/companion/models"
)

type httpRemoteStore struct {
	client *resty.Client

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewHTTPRemoteStore constructs an HTTP/REST implementation of [RemoteStore].
// It normalises and validates the base URL from cfg.BaseURL and configures
// the underlying resty client with the resolved base URL and request timeout.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a valid URL.
func NewHTTPRemoteStore(cfg config.Remote, logger *logger.Logger) (RemoteStore, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote base url: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout)

	return &httpRemoteStore{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [RemoteStore]. It stores token (whitespace-trimmed) for
// use in the Authorization header of all subsequent authenticated requests.
func (h *httpRemoteStore) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [RemoteStore].
func (h *httpRemoteStore) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// SignUp implements [RemoteStore]. It POSTs the credentials to
// POST /api/auth/register. On success the bearer token is extracted from the
// Authorization response header, stored via SetToken, and its subject claim
// is returned as the owner key.
func (h *httpRemoteStore) SignUp(ctx context.Context, email, password string) (string, error) {
	return h.authenticate(ctx, email, password, "/api/auth/register")
}

// SignIn implements [RemoteStore]. It POSTs the credentials to
// POST /api/auth/login; otherwise identical to SignUp.
func (h *httpRemoteStore) SignIn(ctx context.Context, email, password string) (string, error) {
	return h.authenticate(ctx, email, password, "/api/auth/login")
}

// Restore implements [RemoteStore].
func (h *httpRemoteStore) Restore(token string) (string, error) {
	ownerKey, err := parseOwnerKeyFromJWT(strings.TrimSpace(token))
	if err != nil {
		return "", fmt.Errorf("restore parse owner key: %w", err)
	}

	h.SetToken(token)
	return ownerKey, nil
}

func (h *httpRemoteStore) authenticate(ctx context.Context, email, password, route string) (string, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(credentials{Email: email, Password: password}).
		Post(route)
	if err != nil {
		return "", fmt.Errorf("auth request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	token, err := parseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return "", fmt.Errorf("auth parse bearer token: %w", err)
	}

	ownerKey, err := parseOwnerKeyFromJWT(token)
	if err != nil {
		return "", fmt.Errorf("auth parse owner key: %w", err)
	}

	h.SetToken(token)
	return ownerKey, nil
}

// CreateProfile implements [RemoteStore]. It PUTs the profile document to
// PUT /api/users/{ownerKey}, replacing any previous document. Requires a
// valid bearer token.
func (h *httpRemoteStore) CreateProfile(ctx context.Context, profile models.UserProfile, ownerKey string) error {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(profile).
		Put("/api/users/" + url.PathEscape(ownerKey))
	if err != nil {
		return fmt.Errorf("create profile request: %w", err)
	}

	return mapHTTPError(resp)
}

// FetchProfile implements [RemoteStore]. It GETs the profile document from
// GET /api/users/{ownerKey}. An HTTP 404 maps to [ErrProfileNotFound] so
// callers can tell "fresh account" apart from transport failure. Requires a
// valid bearer token.
func (h *httpRemoteStore) FetchProfile(ctx context.Context, ownerKey string) (models.UserProfile, error) {
	resp, err := h.authedRequest(ctx).Get("/api/users/" + url.PathEscape(ownerKey))
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("fetch profile request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.UserProfile{}, fmt.Errorf("%w: owner=%s", ErrProfileNotFound, ownerKey)
		}
		return models.UserProfile{}, err
	}

	var profile models.UserProfile
	if err = json.Unmarshal(resp.Body(), &profile); err != nil {
		return models.UserProfile{}, fmt.Errorf("decode profile document: %w", err)
	}

	return profile, nil
}

// DeleteAllData implements [RemoteStore]. The backing store does not cascade,
// so deletion is two-phase: list the owner's mood documents and delete each,
// then delete the profile document. A failure between phases is surfaced to
// the caller, who retries the whole operation; already-deleted mood documents
// make the retry cheaper, not incorrect.
func (h *httpRemoteStore) DeleteAllData(ctx context.Context, ownerKey string) error {
	log := logger.FromContext(ctx)

	entries, err := h.ListMoodEntries(ctx, ownerKey)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("list moods before delete: %w", err)
	}

	for _, entry := range entries {
		resp, reqErr := h.authedRequest(ctx).
			Delete("/api/users/" + url.PathEscape(ownerKey) + "/moods/" + entry.ID.String())
		if reqErr != nil {
			return fmt.Errorf("delete mood document request: %w", reqErr)
		}
		if mapErr := mapHTTPError(resp); mapErr != nil && !errors.Is(mapErr, ErrNotFound) {
			return fmt.Errorf("delete mood document (id=%s): %w", entry.ID, mapErr)
		}
	}
	log.Debug().
		Str("func", "httpRemoteStore.DeleteAllData").
		Int("moods_deleted", len(entries)).
		Msg("deleted remote mood documents")

	resp, err := h.authedRequest(ctx).Delete("/api/users/" + url.PathEscape(ownerKey))
	if err != nil {
		return fmt.Errorf("delete profile document request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete profile document: %w", err)
	}

	return nil
}

// AppendMoodEntry implements [RemoteStore]. It POSTs the mood document to
// POST /api/users/{ownerKey}/moods. Requires a valid bearer token.
func (h *httpRemoteStore) AppendMoodEntry(ctx context.Context, entry models.MoodEntry, ownerKey string) error {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(entry).
		Post("/api/users/" + url.PathEscape(ownerKey) + "/moods")
	if err != nil {
		return fmt.Errorf("append mood entry request: %w", err)
	}

	return mapHTTPError(resp)
}

// ListMoodEntries implements [RemoteStore]. It GETs the owner's mood
// documents from GET /api/users/{ownerKey}/moods and returns them occurrence
// date descending regardless of server ordering. Requires a valid bearer
// token.
func (h *httpRemoteStore) ListMoodEntries(ctx context.Context, ownerKey string) ([]models.MoodEntry, error) {
	resp, err := h.authedRequest(ctx).Get("/api/users/" + url.PathEscape(ownerKey) + "/moods")
	if err != nil {
		return nil, fmt.Errorf("list mood entries request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var entries []models.MoodEntry
	if err = json.Unmarshal(resp.Body(), &entries); err != nil {
		return nil, fmt.Errorf("decode mood documents: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})

	return entries, nil
}

func (h *httpRemoteStore) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body)
	default:
		return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
	}
}

func parseBearerToken(value string) (string, error) {
	parts := strings.Split(strings.TrimSpace(value), " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}

// parseOwnerKeyFromJWT extracts the subject claim without verifying the
// signature: the client treats the token as opaque auth material and only
// needs the namespace key the server minted into it.
func parseOwnerKeyFromJWT(tokenString string) (string, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", errors.New("token has no subject")
	}

	return sub, nil
}
