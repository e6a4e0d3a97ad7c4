package api

import (
	"net/http"

	"nutrifit/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	catalogService service.CatalogService,
) {
	exerciseHandler := NewExerciseHandler(catalogService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr})
		})

		// --- Exercise Catalog Routes ---
		exerciseGroup := protected.Group("/exercises")
		{
			// GET /api/v1/exercises/search?q=&bodyPart=&target=&equipment=&limit=&offset=
			exerciseGroup.GET("/search", exerciseHandler.SearchExercises)

			// GET /api/v1/exercises/{externalId}
			exerciseGroup.GET("/:externalId", exerciseHandler.GetExerciseByExternalID)
		}
	}
}
