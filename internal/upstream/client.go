package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"nutrifit/fitness-app/internal/config"
	"nutrifit/fitness-app/internal/domain"
)

// CriteriaKind selects which upstream query route a fetch uses.
type CriteriaKind string

const (
	CriteriaName      CriteriaKind = "name"
	CriteriaBodyPart  CriteriaKind = "bodyPart"
	CriteriaTarget    CriteriaKind = "target"
	CriteriaEquipment CriteriaKind = "equipment"
	CriteriaNone      CriteriaKind = "none" // full listing
)

// Error values for upstream failures.
var (
	ErrTimeout  = errors.New("upstream request timed out")
	ErrNotFound = errors.New("exercise not found upstream")
)

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// Client performs authenticated HTTP calls against the exercise provider.
// It never retries; retry policy belongs to the caller.
type Client struct {
	cfg        config.UpstreamConfig
	httpClient *http.Client
}

// NewClient creates an upstream client from the given provider configuration.
func NewClient(cfg config.UpstreamConfig) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
	}
}

// FetchByCriteria fetches exercises matching a single criteria, using the
// interactive search timeout. CriteriaNone fetches the full listing.
func (c *Client) FetchByCriteria(ctx context.Context, kind CriteriaKind, value string) ([]domain.Exercise, error) {
	return c.fetchList(ctx, kind, value, c.cfg.SearchTimeout)
}

// FetchGroup fetches all exercises for one target muscle group, using the
// longer bulk import timeout. Used by the batch importer.
func (c *Client) FetchGroup(ctx context.Context, target string) ([]domain.Exercise, error) {
	return c.fetchList(ctx, CriteriaTarget, target, c.cfg.ImportTimeout)
}

// FetchByID fetches a single exercise by its provider-assigned id.
// A 404 from the provider surfaces as ErrNotFound.
func (c *Client) FetchByID(ctx context.Context, id string) (*domain.Exercise, error) {
	body, err := c.get(ctx, "/exercises/exercise/"+url.PathEscape(id), c.cfg.SearchTimeout)
	if err != nil {
		return nil, err
	}

	var raw rawExercise
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decoding upstream exercise: %w", err)
	}
	ex := normalize(raw)
	return &ex, nil
}

func (c *Client) fetchList(ctx context.Context, kind CriteriaKind, value string, timeout time.Duration) ([]domain.Exercise, error) {
	body, err := c.get(ctx, listPath(kind, value), timeout)
	if err != nil {
		return nil, err
	}

	var raws []rawExercise
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, fmt.Errorf("decoding upstream exercises: %w", err)
	}

	exercises := make([]domain.Exercise, len(raws))
	for i, raw := range raws {
		exercises[i] = normalize(raw)
	}
	return exercises, nil
}

// get performs one authenticated GET with a per-call deadline and returns the
// response body. Status handling: 404 -> ErrNotFound, other non-2xx -> StatusError.
func (c *Client) get(ctx context.Context, path string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-RapidAPI-Key", c.cfg.APIKey)
	req.Header.Set("X-RapidAPI-Host", c.cfg.APIHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return nil, ErrTimeout
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, err
	}
	return body, nil
}

func listPath(kind CriteriaKind, value string) string {
	switch kind {
	case CriteriaName:
		return "/exercises/name/" + url.PathEscape(value)
	case CriteriaBodyPart:
		return "/exercises/bodyPart/" + url.PathEscape(value)
	case CriteriaTarget:
		return "/exercises/target/" + url.PathEscape(value)
	case CriteriaEquipment:
		return "/exercises/equipment/" + url.PathEscape(value)
	default:
		return "/exercises"
	}
}
