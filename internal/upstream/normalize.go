package upstream

import (
	"encoding/json"
	"strings"

	"nutrifit/fitness-app/internal/domain"
)

// rawExercise is the provider's wire shape. Field names vary between provider
// versions (bodyPart vs muscle_group vs target, gifUrl vs image), so the raw
// record carries all variants and normalize picks in documented order.
type rawExercise struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	BodyPart         string     `json:"bodyPart"`
	MuscleGroup      string     `json:"muscle_group"`
	Target           string     `json:"target"`
	Equipment        string     `json:"equipment"`
	Difficulty       string     `json:"difficulty"`
	Category         string     `json:"category"`
	SecondaryMuscles stringList `json:"secondaryMuscles"`
	Instructions     stringList `json:"instructions"`
	GifURL           string     `json:"gifUrl"`
	Image            string     `json:"image"`
	VideoURL         string     `json:"videoUrl"`
}

// stringList decodes either a JSON array of strings or a single comma/newline
// separated string into an ordered sequence of trimmed, non-empty segments.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*s = trimAll(items)
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*s = trimAll(strings.FieldsFunc(joined, func(r rune) bool {
		return r == ',' || r == '\n'
	}))
	return nil
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// normalize maps one raw upstream record into the canonical catalog shape.
// Defaults: missing optional strings stay "", SecondaryMuscles is never nil.
func normalize(raw rawExercise) domain.Exercise {
	secondary := []string(raw.SecondaryMuscles)
	if secondary == nil {
		secondary = []string{}
	}

	return domain.Exercise{
		ExternalID:       strings.TrimSpace(raw.ID),
		Name:             strings.TrimSpace(raw.Name),
		MuscleGroup:      firstNonEmpty(raw.BodyPart, raw.MuscleGroup, raw.Target),
		Equipment:        strings.TrimSpace(raw.Equipment),
		Difficulty:       strings.TrimSpace(raw.Difficulty),
		Category:         strings.TrimSpace(raw.Category),
		SecondaryMuscles: secondary,
		Media: domain.MediaRefs{
			GifURL:   firstNonEmpty(raw.GifURL, raw.Image),
			VideoURL: strings.TrimSpace(raw.VideoURL),
			ImageURL: strings.TrimSpace(raw.Image),
		},
		Notes: strings.Join(raw.Instructions, "\n"),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
