package repository

import (
	"context"

	"nutrifit/fitness-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate natural key")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ExerciseRepository defines the interface for interacting with stored
// catalog records. The (name, muscleGroup) pair is the natural key: the
// backing store enforces uniqueness on it, so a racing Create surfaces as
// ErrDuplicateKey rather than a duplicate row.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	// GetByNameAndMuscleGroup performs a case-sensitive exact match on both
	// key components, mirroring the uniqueness constraint.
	GetByNameAndMuscleGroup(ctx context.Context, name, muscleGroup string) (*domain.Exercise, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.Exercise, error)
	// Update refreshes the descriptive fields of an existing record.
	// ExternalID, Name and MuscleGroup are never rewritten.
	Update(ctx context.Context, exercise *domain.Exercise) error
}
