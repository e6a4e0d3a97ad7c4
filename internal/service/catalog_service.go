package service

import (
	"context"
	"errors"
	"strings"

	"nutrifit/fitness-app/internal/domain"
	"nutrifit/fitness-app/internal/upstream"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound = errors.New("exercise not found")
)

// Pagination bounds for search results.
const (
	MinSearchLimit     = 1
	MaxSearchLimit     = 50
	DefaultSearchLimit = 20
)

// ExerciseSource abstracts the upstream provider client for the services.
// *upstream.Client satisfies it.
type ExerciseSource interface {
	FetchByCriteria(ctx context.Context, kind upstream.CriteriaKind, value string) ([]domain.Exercise, error)
	FetchGroup(ctx context.Context, target string) ([]domain.Exercise, error)
	FetchByID(ctx context.Context, id string) (*domain.Exercise, error)
}

// SearchParams carries the client's filter set. Any subset may be supplied.
type SearchParams struct {
	Query     string
	BodyPart  string
	Target    string
	Equipment string
	Limit     int
	Offset    int
}

// SearchResult is one page of filtered exercises. Total is the post-filter
// count over the whole result set, not the page size.
type SearchResult struct {
	Total     int
	Limit     int
	Offset    int
	Exercises []domain.Exercise
}

// --- Service Interface ---
type CatalogService interface {
	Search(ctx context.Context, params SearchParams) (*SearchResult, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.Exercise, error)
}

// --- Service Implementation ---

// catalogService turns ambiguous, partially specified filters into a single
// upstream call plus local refinement. It is stateless and keeps no cache:
// every call reaches the provider.
type catalogService struct {
	source ExerciseSource
}

// NewCatalogService creates a new instance of catalogService.
func NewCatalogService(source ExerciseSource) CatalogService {
	return &catalogService{source: source}
}

// Search picks exactly one upstream query strategy (first match wins:
// query, bodyPart, target, equipment, full listing), applies every remaining
// non-empty filter locally, then paginates the filtered sequence.
func (s *catalogService) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	query := strings.TrimSpace(params.Query)
	bodyPart := strings.TrimSpace(params.BodyPart)
	target := strings.TrimSpace(params.Target)
	equipment := strings.TrimSpace(params.Equipment)

	kind := upstream.CriteriaNone
	value := ""
	switch {
	case query != "":
		kind, value = upstream.CriteriaName, query
	case bodyPart != "":
		kind, value = upstream.CriteriaBodyPart, bodyPart
	case target != "":
		kind, value = upstream.CriteriaTarget, target
	case equipment != "":
		kind, value = upstream.CriteriaEquipment, equipment
	}

	fetched, err := s.source.FetchByCriteria(ctx, kind, value)
	if err != nil {
		return nil, err
	}

	filtered := refine(fetched, kind, query, bodyPart, target, equipment)

	limit := clampLimit(params.Limit)
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	total := len(filtered)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &SearchResult{
		Total:     total,
		Limit:     limit,
		Offset:    offset,
		Exercises: filtered[start:end],
	}, nil
}

// GetByExternalID fetches a single exercise straight from the provider.
func (s *catalogService) GetByExternalID(ctx context.Context, externalID string) (*domain.Exercise, error) {
	exercise, err := s.source.FetchByID(ctx, externalID)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// refine applies every filter that was NOT sent upstream as a local predicate,
// in fixed order: bodyPart, equipment, target, then name substring. A record
// must satisfy all supplied filters to remain.
func refine(exercises []domain.Exercise, used upstream.CriteriaKind, query, bodyPart, target, equipment string) []domain.Exercise {
	filtered := exercises

	if bodyPart != "" && used != upstream.CriteriaBodyPart {
		filtered = keep(filtered, func(e domain.Exercise) bool {
			return strings.EqualFold(e.MuscleGroup, bodyPart)
		})
	}
	if equipment != "" && used != upstream.CriteriaEquipment {
		filtered = keep(filtered, func(e domain.Exercise) bool {
			return strings.EqualFold(e.Equipment, equipment)
		})
	}
	if target != "" && used != upstream.CriteriaTarget {
		filtered = keep(filtered, func(e domain.Exercise) bool {
			return strings.EqualFold(e.MuscleGroup, target)
		})
	}
	if query != "" && used != upstream.CriteriaName {
		needle := strings.ToLower(query)
		filtered = keep(filtered, func(e domain.Exercise) bool {
			return strings.Contains(strings.ToLower(e.Name), needle)
		})
	}

	return filtered
}

func keep(exercises []domain.Exercise, pred func(domain.Exercise) bool) []domain.Exercise {
	out := make([]domain.Exercise, 0, len(exercises))
	for _, e := range exercises {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// clampLimit bounds a requested page size to [MinSearchLimit, MaxSearchLimit].
// Out-of-range values are silently clamped, never rejected.
func clampLimit(limit int) int {
	if limit < MinSearchLimit {
		return MinSearchLimit
	}
	if limit > MaxSearchLimit {
		return MaxSearchLimit
	}
	return limit
}
