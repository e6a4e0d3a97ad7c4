package api

import (
	"errors"
	"net/http"
	"strconv"

	"nutrifit/fitness-app/internal/domain"
	"nutrifit/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler holds the catalog service dependency.
type ExerciseHandler struct {
	catalogService service.CatalogService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(catalogService service.CatalogService) *ExerciseHandler {
	return &ExerciseHandler{catalogService: catalogService}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseResponse is the DTO for returning exercise details to the mobile client.
type ExerciseResponse struct {
	ExternalID       string   `json:"externalId"`
	Name             string   `json:"name"`
	MuscleGroup      string   `json:"muscleGroup,omitempty"`
	Equipment        string   `json:"equipment,omitempty"`
	Difficulty       string   `json:"difficulty,omitempty"`
	Category         string   `json:"category,omitempty"`
	SecondaryMuscles []string `json:"secondaryMuscles"`
	GifURL           string   `json:"gifUrl,omitempty"`
	VideoURL         string   `json:"videoUrl,omitempty"`
	ImageURL         string   `json:"imageUrl,omitempty"`
	Notes            string   `json:"notes,omitempty"`
}

// SearchResponse is the paginated envelope for search results.
type SearchResponse struct {
	Success   bool               `json:"success"`
	Total     int                `json:"total"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
	Exercises []ExerciseResponse `json:"exercises"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	secondary := ex.SecondaryMuscles
	if secondary == nil {
		secondary = []string{}
	}
	return ExerciseResponse{
		ExternalID:       ex.ExternalID,
		Name:             ex.Name,
		MuscleGroup:      ex.MuscleGroup,
		Equipment:        ex.Equipment,
		Difficulty:       ex.Difficulty,
		Category:         ex.Category,
		SecondaryMuscles: secondary,
		GifURL:           ex.Media.GifURL,
		VideoURL:         ex.Media.VideoURL,
		ImageURL:         ex.Media.ImageURL,
		Notes:            ex.Notes,
	}
}

// MapExercisesToResponse converts a slice of domain.Exercise to a slice of ExerciseResponse DTO.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i, ex := range exercises {
		responses[i] = MapExerciseToResponse(&ex)
	}
	return responses
}

// --- Handler Methods ---

// SearchExercises godoc
// @Summary Search the exercise catalog
// @Description Searches exercises by free text and/or categorical filters with pagination.
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param q query string false "Free-text name search"
// @Param bodyPart query string false "Body part filter"
// @Param target query string false "Target muscle filter"
// @Param equipment query string false "Equipment filter"
// @Param limit query int false "Page size (1-50, default 20)"
// @Param offset query int false "Page offset (default 0)"
// @Success 200 {object} SearchResponse "Paginated search results"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /exercises/search [get]
func (h *ExerciseHandler) SearchExercises(c *gin.Context) {
	params := service.SearchParams{
		Query:     c.Query("q"),
		BodyPart:  c.Query("bodyPart"),
		Target:    c.Query("target"),
		Equipment: c.Query("equipment"),
		Limit:     intQueryOrDefault(c, "limit", service.DefaultSearchLimit),
		Offset:    intQueryOrDefault(c, "offset", 0),
	}

	result, err := h.catalogService.Search(c.Request.Context(), params)
	if err != nil {
		// Upstream detail stays server-side; clients get a generic failure.
		abortWithError(c, http.StatusInternalServerError, "Failed to search exercises.")
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Success:   true,
		Total:     result.Total,
		Limit:     result.Limit,
		Offset:    result.Offset,
		Exercises: MapExercisesToResponse(result.Exercises),
	})
}

// GetExerciseByExternalID godoc
// @Summary Get one exercise by its provider id
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param externalId path string true "Provider-assigned exercise id"
// @Success 200 {object} gin.H "Exercise details"
// @Failure 404 {object} gin.H "Exercise not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /exercises/{externalId} [get]
func (h *ExerciseHandler) GetExerciseByExternalID(c *gin.Context) {
	externalID := c.Param("externalId")

	exercise, err := h.catalogService.GetByExternalID(c.Request.Context(), externalID)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, "Exercise not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercise.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"exercise": MapExerciseToResponse(exercise),
	})
}

// intQueryOrDefault parses a numeric query parameter best-effort: a missing or
// unparsable value falls back to the documented default instead of erroring.
func intQueryOrDefault(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
