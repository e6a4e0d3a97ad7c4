// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaRefs groups the optional media URLs attached to an exercise.
type MediaRefs struct {
	GifURL   string `bson:"gifUrl,omitempty" json:"gifUrl,omitempty"`
	VideoURL string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	ImageURL string `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
}

// Exercise represents a single exercise definition in the catalog.
// (Name, MuscleGroup) is the natural key for upserts: at most one stored
// record may exist per distinct pair. ExternalID is assigned by the upstream
// provider and is never rewritten once stored.
type Exercise struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ExternalID string             `bson:"externalId" json:"externalId"`
	Name       string             `bson:"name" json:"name"`

	MuscleGroup      string    `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"` // e.g. "pectorals", "lats", "quads"
	Equipment        string    `bson:"equipment,omitempty" json:"equipment,omitempty"`     // e.g. "barbell", "body weight"
	Difficulty       string    `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Category         string    `bson:"category,omitempty" json:"category,omitempty"`
	SecondaryMuscles []string  `bson:"secondaryMuscles" json:"secondaryMuscles"` // always a slice, empty if unknown
	Media            MediaRefs `bson:"media,omitempty" json:"media"`
	Notes            string    `bson:"notes,omitempty" json:"notes,omitempty"` // instruction steps joined into free text

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// MuscleGroups is the fixed taxonomy the import sweep visits. It mirrors the
// upstream provider's target-muscle vocabulary and the muscle-group filter list
// in the mobile client; the two are maintained by hand and must stay in sync.
var MuscleGroups = []string{
	"abductors",
	"abs",
	"adductors",
	"biceps",
	"calves",
	"cardiovascular system",
	"delts",
	"forearms",
	"glutes",
	"hamstrings",
	"lats",
	"levator scapulae",
	"pectorals",
	"quads",
	"serratus anterior",
	"spine",
	"traps",
	"triceps",
}
