package api

import (
	"github.com/Conceptual-Machines/note-gen/internal/api/handlers"
	"github.com/Conceptual-Machines/note-gen/internal/api/middleware"
	"github.com/Conceptual-Machines/note-gen/internal/config"
	"github.com/Conceptual-Machines/note-gen/internal/metrics"
	"github.com/Conceptual-Machines/note-gen/internal/services"
	"github.com/gin-gonic/gin"
)

// SetupRouter wires middleware and routes. repo is nil when persistence is
// disabled, which leaves the progression CRUD routes unregistered.
func SetupRouter(cfg *config.Config, repo services.ProgressionRepository, cloudwatch *metrics.Client, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(middleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(middleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(middleware.RequestTracking(cloudwatch))

	// CORS middleware
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	persistence := repo != nil

	// Health check
	healthHandler := handlers.NewHealthHandler(persistence)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version, persistence)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	v1 := router.Group("/api/v1")
	if cfg.IsGatewayMode() {
		v1.Use(middleware.GatewayAuth())
	} else {
		v1.Use(middleware.NoAuth())
	}
	{
		theoryHandler := handlers.NewTheoryHandler(cfg, cloudwatch)

		// Notes
		v1.GET("/notes/:note", theoryHandler.GetNote)
		v1.GET("/notes/midi/:number", theoryHandler.GetNoteFromMIDI)
		v1.POST("/notes/transpose", theoryHandler.TransposeNote)

		// Scales
		v1.GET("/scales/qualities", theoryHandler.ListScaleQualities)
		v1.POST("/scales", theoryHandler.BuildScale)

		// Chords
		v1.GET("/chords/qualities", theoryHandler.ListChordQualities)
		v1.POST("/chords", theoryHandler.BuildChord)
		v1.POST("/chords/transpose", theoryHandler.TransposeChord)

		// Roman numeral analysis
		v1.POST("/roman", theoryHandler.AnalyzeRoman)

		// Progressions
		progressionHandler := handlers.NewProgressionHandler(cfg, repo, cloudwatch)
		v1.GET("/progressions/patterns", progressionHandler.ListPatterns)
		v1.POST("/progressions/generate", progressionHandler.Generate)

		// Note sequences
		v1.GET("/sequences/patterns", progressionHandler.ListNotePatterns)
		v1.POST("/sequences/generate", progressionHandler.GenerateSequence)

		if persistence {
			v1.POST("/progressions", progressionHandler.Create)
			v1.GET("/progressions", progressionHandler.List)
			v1.GET("/progressions/:id", progressionHandler.Get)

			// Behind a gateway only admins may delete stored progressions
			if cfg.IsGatewayMode() {
				v1.DELETE("/progressions/:id", middleware.AdminRequired(), progressionHandler.Delete)
			} else {
				v1.DELETE("/progressions/:id", progressionHandler.Delete)
			}
		}
	}

	return router
}
