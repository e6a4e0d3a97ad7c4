package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nutrifit/fitness-app/internal/domain"
	"nutrifit/fitness-app/internal/service"
	"nutrifit/fitness-app/internal/upstream"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

// stubSource feeds the catalog service canned upstream results.
type stubSource struct {
	exercises []domain.Exercise
	err       error
	byID      map[string]*domain.Exercise
}

func (s *stubSource) FetchByCriteria(context.Context, upstream.CriteriaKind, string) ([]domain.Exercise, error) {
	return s.exercises, s.err
}

func (s *stubSource) FetchGroup(context.Context, string) ([]domain.Exercise, error) {
	return s.exercises, s.err
}

func (s *stubSource) FetchByID(_ context.Context, id string) (*domain.Exercise, error) {
	if s.err != nil {
		return nil, s.err
	}
	if ex, ok := s.byID[id]; ok {
		return ex, nil
	}
	return nil, upstream.ErrNotFound
}

func newTestRouter(source service.ExerciseSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, testJWTSecret, service.NewCatalogService(source))
	return router
}

func makeToken(t *testing.T, secret string, expires time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"uid": "user-1",
		"exp": time.Now().Add(expires).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func doRequest(router *gin.Engine, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSearchEndpoint(t *testing.T) {
	source := &stubSource{exercises: []domain.Exercise{
		{ExternalID: "9", Name: "Bench Press", MuscleGroup: "chest", Equipment: "barbell",
			SecondaryMuscles: []string{"triceps"}, Media: domain.MediaRefs{GifURL: "http://x/9.gif"}},
	}}
	router := newTestRouter(source)
	token := makeToken(t, testJWTSecret, time.Hour)

	rec := doRequest(router, http.MethodGet, "/api/v1/exercises/search?target=chest&limit=20&offset=0", token)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 20, resp.Limit)
	assert.Equal(t, 0, resp.Offset)
	require.Len(t, resp.Exercises, 1)
	assert.Equal(t, "9", resp.Exercises[0].ExternalID)
	assert.Equal(t, "Bench Press", resp.Exercises[0].Name)
	assert.Equal(t, []string{"triceps"}, resp.Exercises[0].SecondaryMuscles)
}

func TestSearchParamCoercion(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults when absent", "", 20, 0},
		{"non-numeric limit falls back to default", "limit=abc", 20, 0},
		{"oversized limit clamps to 50", "limit=1000", 50, 0},
		{"zero limit clamps to minimum", "limit=0", 1, 0},
		{"negative offset clamps to zero", "offset=-5", 20, 0},
		{"non-numeric offset falls back to zero", "offset=x", 20, 0},
	}

	router := newTestRouter(&stubSource{})
	token := makeToken(t, testJWTSecret, time.Hour)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodGet, "/api/v1/exercises/search?"+tt.query, token)
			require.Equal(t, http.StatusOK, rec.Code)

			var resp SearchResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantLimit, resp.Limit)
			assert.Equal(t, tt.wantOffset, resp.Offset)
		})
	}
}

func TestSearchUpstreamFailureIsGeneric(t *testing.T) {
	router := newTestRouter(&stubSource{err: errors.New("provider exploded: secret detail")})
	token := makeToken(t, testJWTSecret, time.Hour)

	rec := doRequest(router, http.MethodGet, "/api/v1/exercises/search?q=squat", token)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to search exercises.")
	assert.NotContains(t, rec.Body.String(), "secret detail", "upstream detail must not leak")
}

func TestGetExerciseByExternalID(t *testing.T) {
	source := &stubSource{byID: map[string]*domain.Exercise{
		"9": {ExternalID: "9", Name: "Bench Press", MuscleGroup: "chest"},
	}}
	router := newTestRouter(source)
	token := makeToken(t, testJWTSecret, time.Hour)

	rec := doRequest(router, http.MethodGet, "/api/v1/exercises/9", token)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success  bool             `json:"success"`
		Exercise ExerciseResponse `json:"exercise"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Bench Press", resp.Exercise.Name)

	rec = doRequest(router, http.MethodGet, "/api/v1/exercises/missing", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Exercise not found.")
}

func TestAuthMiddlewareRejections(t *testing.T) {
	router := newTestRouter(&stubSource{})

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbage token", "not-a-jwt"},
		{"wrong secret", makeToken(t, "other-secret", time.Hour)},
		{"expired token", makeToken(t, testJWTSecret, -time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodGet, "/api/v1/exercises/search", tt.token)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestSearchAndDetailRoutesCoexist(t *testing.T) {
	// /exercises/search and /exercises/:externalId share a path segment;
	// each request must reach its own handler.
	source := &stubSource{
		exercises: []domain.Exercise{{ExternalID: "1", Name: "Squat"}},
		byID: map[string]*domain.Exercise{
			"search-adjacent": {ExternalID: "search-adjacent", Name: "Deadlift"},
		},
	}
	router := newTestRouter(source)
	token := makeToken(t, testJWTSecret, time.Hour)

	rec := doRequest(router, http.MethodGet, "/api/v1/exercises/search", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var searchResp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &searchResp))
	assert.Equal(t, 1, searchResp.Total)

	rec = doRequest(router, http.MethodGet, "/api/v1/exercises/search-adjacent", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Deadlift")
}

func TestPingIsOpen(t *testing.T) {
	router := newTestRouter(&stubSource{})
	rec := doRequest(router, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
