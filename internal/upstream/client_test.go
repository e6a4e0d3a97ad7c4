package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nutrifit/fitness-app/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) config.UpstreamConfig {
	return config.UpstreamConfig{
		BaseURL:       baseURL,
		APIKey:        "test-key",
		APIHost:       "exercisedb.test",
		SearchTimeout: 2 * time.Second,
		ImportTimeout: 2 * time.Second,
	}
}

func TestFetchByCriteriaRoutesAndAuth(t *testing.T) {
	tests := []struct {
		name     string
		kind     CriteriaKind
		value    string
		wantPath string
	}{
		{"by name", CriteriaName, "bench press", "/exercises/name/bench%20press"},
		{"by body part", CriteriaBodyPart, "chest", "/exercises/bodyPart/chest"},
		{"by target", CriteriaTarget, "pectorals", "/exercises/target/pectorals"},
		{"by equipment", CriteriaEquipment, "barbell", "/exercises/equipment/barbell"},
		{"full listing", CriteriaNone, "", "/exercises"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotKey, gotHost string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.EscapedPath()
				gotKey = r.Header.Get("X-RapidAPI-Key")
				gotHost = r.Header.Get("X-RapidAPI-Host")
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`[]`))
			}))
			defer server.Close()

			client := NewClient(testConfig(server.URL))
			exercises, err := client.FetchByCriteria(context.Background(), tt.kind, tt.value)
			require.NoError(t, err)
			assert.Empty(t, exercises)
			assert.Equal(t, tt.wantPath, gotPath)
			assert.Equal(t, "test-key", gotKey)
			assert.Equal(t, "exercisedb.test", gotHost)
		})
	}
}

func TestFetchByCriteriaNormalizesRecords(t *testing.T) {
	payload := `[
		{
			"id": "0001",
			"name": "barbell bench press",
			"bodyPart": "chest",
			"target": "pectorals",
			"equipment": "barbell",
			"secondaryMuscles": ["triceps", "anterior deltoid"],
			"instructions": ["Lie on the bench.", "Lower the bar.", "Press up."],
			"gifUrl": "http://media.test/0001.gif"
		},
		{
			"id": "0002",
			"name": "cable fly",
			"muscle_group": "chest",
			"secondaryMuscles": "anterior deltoid, serratus anterior",
			"image": "http://media.test/0002.png"
		}
	]`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	exercises, err := client.FetchByCriteria(context.Background(), CriteriaBodyPart, "chest")
	require.NoError(t, err)
	require.Len(t, exercises, 2)

	first := exercises[0]
	assert.Equal(t, "0001", first.ExternalID)
	assert.Equal(t, "barbell bench press", first.Name)
	assert.Equal(t, "chest", first.MuscleGroup) // bodyPart wins over target
	assert.Equal(t, "barbell", first.Equipment)
	assert.Equal(t, []string{"triceps", "anterior deltoid"}, first.SecondaryMuscles)
	assert.Equal(t, "Lie on the bench.\nLower the bar.\nPress up.", first.Notes)
	assert.Equal(t, "http://media.test/0001.gif", first.Media.GifURL)

	second := exercises[1]
	assert.Equal(t, "chest", second.MuscleGroup) // muscle_group variant
	assert.Equal(t, []string{"anterior deltoid", "serratus anterior"}, second.SecondaryMuscles)
	assert.Equal(t, "http://media.test/0002.png", second.Media.GifURL) // image fallback
	assert.Equal(t, "http://media.test/0002.png", second.Media.ImageURL)
	assert.Empty(t, second.Notes)
}

func TestFetchGroupUsesTargetRoute(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	_, err := client.FetchGroup(context.Background(), "lats")
	require.NoError(t, err)
	assert.Equal(t, "/exercises/target/lats", gotPath)
}

func TestFetchByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/exercises/exercise/0009" {
			w.Write([]byte(`{"id":"0009","name":"pull up","bodyPart":"back","target":"lats"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	exercise, err := client.FetchByID(context.Background(), "0009")
	require.NoError(t, err)
	assert.Equal(t, "pull up", exercise.Name)
	assert.Equal(t, "back", exercise.MuscleGroup)

	_, err = client.FetchByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpstreamStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	_, err := client.FetchByCriteria(context.Background(), CriteriaNone, "")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
}

func TestUpstreamTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.SearchTimeout = 20 * time.Millisecond
	client := NewClient(cfg)

	_, err := client.FetchByCriteria(context.Background(), CriteriaNone, "")
	assert.ErrorIs(t, err, ErrTimeout)
}
