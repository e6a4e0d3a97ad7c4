package mongo

import (
	"context"
	"errors"
	"time"

	"nutrifit/fitness-app/internal/domain"
	"nutrifit/fitness-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Create inserts a new exercise into the database.
// A write that loses the race on the (name, muscleGroup) unique index
// returns repository.ErrDuplicateKey instead of inserting a duplicate row.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Name == "" {
		return primitive.NilObjectID, errors.New("exercise name is required")
	}
	if exercise.SecondaryMuscles == nil {
		exercise.SecondaryMuscles = []string{}
	}

	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves an exercise by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByNameAndMuscleGroup retrieves an exercise by its natural key.
// Both components are matched with case-sensitive byte equality, mirroring
// the unique index; upstream names are assumed canonical.
func (r *mongoExerciseRepository) GetByNameAndMuscleGroup(ctx context.Context, name, muscleGroup string) (*domain.Exercise, error) {
	return r.findOne(ctx, bson.M{"name": name, "muscleGroup": muscleGroup})
}

// GetByExternalID retrieves an exercise by its provider-assigned id.
func (r *mongoExerciseRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Exercise, error) {
	return r.findOne(ctx, bson.M{"externalId": externalID})
}

func (r *mongoExerciseRepository) findOne(ctx context.Context, filter bson.M) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, filter).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// Update refreshes the descriptive fields of an existing exercise.
// The natural key (name, muscleGroup) and the provider-assigned externalId
// are deliberately left out of the $set document.
func (r *mongoExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == primitive.NilObjectID {
		return errors.New("exercise ID is required for update")
	}

	secondary := exercise.SecondaryMuscles
	if secondary == nil {
		secondary = []string{}
	}

	filter := bson.M{"_id": exercise.ID}
	update := bson.M{
		"$set": bson.M{
			"equipment":        exercise.Equipment,
			"difficulty":       exercise.Difficulty,
			"category":         exercise.Category,
			"secondaryMuscles": secondary,
			"media":            exercise.Media,
			"notes":            exercise.Notes,
			"updatedAt":        time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
// The unique compound index on the natural key is what makes the importer's
// find-then-create sequence safe across concurrent runs.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}, {Key: "muscleGroup", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("natural_key"),
		},
		{
			Keys:    bson.D{{Key: "externalId", Value: 1}},
			Options: options.Index().SetName("external_id"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
