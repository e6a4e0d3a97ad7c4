package service

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"nutrifit/fitness-app/internal/domain"
	"nutrifit/fitness-app/internal/repository"
	"nutrifit/fitness-app/internal/storage"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrImportInProgress = errors.New("an import run is already in progress")
)

// DefaultImportDelay is the pause between muscle groups when no delay is
// configured. The upstream provider rate-limits aggressively; the sweep is
// sequential with this spacing on purpose.
const DefaultImportDelay = 600 * time.Millisecond

// GroupReport is the outcome of importing one muscle group. A failed group
// carries a non-empty Err and zeroed counts; the sweep continues past it.
type GroupReport struct {
	Group    string `json:"group"`
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
	Total    int    `json:"total"`
	Err      string `json:"error,omitempty"`
}

// ImportReport aggregates a full taxonomy sweep.
type ImportReport struct {
	RunID         string        `json:"runId"`
	StartedAt     time.Time     `json:"startedAt"`
	Duration      time.Duration `json:"duration"`
	TotalInserted int           `json:"totalInserted"`
	TotalUpdated  int           `json:"totalUpdated"`
	Groups        []GroupReport `json:"groups"`
}

// --- Service Interface ---
type ImportService interface {
	ImportAll(ctx context.Context) (*ImportReport, error)
}

// --- Service Implementation ---

// importService sweeps the fixed muscle-group taxonomy, fetching each group
// from the provider and upserting into the catalog store keyed on
// (name, muscleGroup). At most one sweep runs per process at a time.
type importService struct {
	exerciseRepo repository.ExerciseRepository
	source       ExerciseSource
	media        storage.FileStorage // nil disables gif mirroring
	mediaClient  *http.Client
	delay        time.Duration

	runMu sync.Mutex
}

// NewImportService creates a new instance of importService. media may be nil;
// delay <= 0 falls back to DefaultImportDelay.
func NewImportService(exerciseRepo repository.ExerciseRepository, source ExerciseSource, media storage.FileStorage, delay time.Duration) ImportService {
	if delay <= 0 {
		delay = DefaultImportDelay
	}
	return &importService{
		exerciseRepo: exerciseRepo,
		source:       source,
		media:        media,
		mediaClient:  &http.Client{Timeout: 30 * time.Second},
		delay:        delay,
	}
}

// ImportAll visits every taxonomy group sequentially, pausing after each one
// regardless of outcome. A group failure is recorded in its report entry and
// never aborts the sweep; only context cancellation stops the run early.
func (s *importService) ImportAll(ctx context.Context) (*ImportReport, error) {
	if !s.runMu.TryLock() {
		return nil, ErrImportInProgress
	}
	defer s.runMu.Unlock()

	started := time.Now().UTC()
	report := &ImportReport{
		RunID:     uuid.NewString(),
		StartedAt: started,
		Groups:    make([]GroupReport, 0, len(domain.MuscleGroups)),
	}

	for _, group := range domain.MuscleGroups {
		groupReport := s.importGroup(ctx, group)
		report.Groups = append(report.Groups, groupReport)
		report.TotalInserted += groupReport.Inserted
		report.TotalUpdated += groupReport.Updated

		if groupReport.Err != "" {
			log.Printf("import: group %q failed: %s", group, groupReport.Err)
		} else {
			log.Printf("import: group %q done (inserted=%d updated=%d total=%d)",
				group, groupReport.Inserted, groupReport.Updated, groupReport.Total)
		}

		if err := sleepContext(ctx, s.delay); err != nil {
			report.Duration = time.Since(started)
			return report, err
		}
	}

	report.Duration = time.Since(started)
	return report, nil
}

// importGroup fetches one group and upserts its records. Any fetch or
// processing error fails the whole group: counts are zeroed and the error
// message recorded, matching the all-or-nothing per-group contract.
func (s *importService) importGroup(ctx context.Context, group string) GroupReport {
	inserted, updated, total, err := s.upsertGroup(ctx, group)
	if err != nil {
		return GroupReport{Group: group, Err: err.Error()}
	}
	return GroupReport{Group: group, Inserted: inserted, Updated: updated, Total: total}
}

func (s *importService) upsertGroup(ctx context.Context, group string) (inserted, updated, total int, err error) {
	exercises, err := s.source.FetchGroup(ctx, group)
	if err != nil {
		return 0, 0, 0, err
	}

	for i := range exercises {
		incoming := &exercises[i]
		if s.media != nil {
			s.mirrorGif(ctx, incoming)
		}

		existing, err := s.exerciseRepo.GetByNameAndMuscleGroup(ctx, incoming.Name, incoming.MuscleGroup)
		switch {
		case err == nil:
			// Refresh descriptive fields only; the natural key and the
			// provider-assigned externalId stay as stored.
			existing.Equipment = incoming.Equipment
			existing.Difficulty = incoming.Difficulty
			existing.Category = incoming.Category
			existing.SecondaryMuscles = incoming.SecondaryMuscles
			existing.Media = incoming.Media
			existing.Notes = incoming.Notes
			if err := s.exerciseRepo.Update(ctx, existing); err != nil {
				return 0, 0, 0, err
			}
			updated++
		case errors.Is(err, repository.ErrNotFound):
			if _, err := s.exerciseRepo.Create(ctx, incoming); err != nil {
				return 0, 0, 0, err
			}
			inserted++
		default:
			return 0, 0, 0, err
		}
	}

	return inserted, updated, len(exercises), nil
}

// mirrorGif copies the provider-hosted gif into our own bucket and rewrites
// the record's gif URL. Failures are per-record and non-fatal: the record
// keeps its original URL and still counts toward the group totals.
func (s *importService) mirrorGif(ctx context.Context, exercise *domain.Exercise) {
	if exercise.Media.GifURL == "" || exercise.ExternalID == "" {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exercise.Media.GifURL, nil)
	if err != nil {
		log.Printf("import: skipping gif mirror for %q: %v", exercise.ExternalID, err)
		return
	}
	resp, err := s.mediaClient.Do(req)
	if err != nil {
		log.Printf("import: skipping gif mirror for %q: %v", exercise.ExternalID, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("import: skipping gif mirror for %q: status %d", exercise.ExternalID, resp.StatusCode)
		return
	}

	objectKey := "exercises/gifs/" + exercise.ExternalID + ".gif"
	if err := s.media.Upload(ctx, objectKey, "image/gif", resp.Body); err != nil {
		log.Printf("import: skipping gif mirror for %q: %v", exercise.ExternalID, err)
		return
	}
	exercise.Media.GifURL = s.media.PublicURL(objectKey)
}

// sleepContext pauses for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
