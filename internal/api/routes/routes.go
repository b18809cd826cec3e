package routes

import (
	"log"

	"contact-directory-backend/internal/api/handlers"
	"contact-directory-backend/internal/api/middleware"
	"contact-directory-backend/internal/audit"
	"contact-directory-backend/internal/auth"
	"contact-directory-backend/internal/config"
	"contact-directory-backend/internal/repository"
	"contact-directory-backend/internal/service"
	"contact-directory-backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Create router
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg))

	// Initialize validator
	validator := validator.New()

	// Initialize repositories
	organizationRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	contactRepo := repository.NewContactRepository(db)
	noteRepo := repository.NewContactNoteRepository(db)

	// Initialize the active-organization session store and audit trail
	sessions := session.NewGormStore(db)
	recorder := audit.NewLogRecorder()

	// Load the role/action policy; missing file falls back to defaults
	policy, err := service.LoadPolicy(cfg.PermissionsFile)
	if err != nil {
		log.Fatalf("Failed to load permission policy: %v", err)
	}

	// Initialize services
	gate := service.NewPermissionGate(membershipRepo, policy)
	membershipService := service.NewMembershipService(membershipRepo, organizationRepo, sessions)
	organizationService := service.NewOrganizationService(organizationRepo, membershipRepo, userRepo, sessions, validator)
	contactService := service.NewContactService(contactRepo, validator, recorder)
	noteService := service.NewContactNoteService(noteRepo, contactRepo, validator)

	// Initialize auth
	authService := auth.NewService(cfg.JWTSecret)
	authMiddleware := auth.NewMiddleware(authService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	organizationHandler := handlers.NewOrganizationHandler(organizationService, membershipService, gate)
	contactHandler := handlers.NewContactHandler(contactService, gate)
	noteHandler := handlers.NewContactNoteHandler(noteService, gate)
	meHandler := handlers.NewMeHandler(membershipService)

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	// Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes - All endpoints require authentication
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	{
		// Current user routes
		v1.GET("/me", meHandler.Me)
		v1.GET("/me/organizations", meHandler.Organizations)

		// Organization routes
		organizations := v1.Group("/organizations")
		{
			organizations.POST("", organizationHandler.Create)
			organizations.GET("/:organization", organizationHandler.Get)
			organizations.POST("/:organization/switch", organizationHandler.Switch)
		}

		// Organization-scoped routes: the slug resolves the active organization
		// and a valid membership is required before any handler runs
		scoped := v1.Group("/organizations/:organization")
		scoped.Use(middleware.RequireOrganization(membershipService))
		{
			scoped.PUT("", organizationHandler.Update)
			scoped.DELETE("", organizationHandler.Delete)
			scoped.POST("/members", organizationHandler.InviteMember)
			scoped.DELETE("/members/:user_id", organizationHandler.RemoveMember)

			// Contact routes
			contacts := scoped.Group("/contacts")
			{
				contacts.GET("", contactHandler.List)
				contacts.POST("", contactHandler.Create)
				contacts.GET("/:id", contactHandler.Get)
				contacts.PUT("/:id", contactHandler.Update)
				contacts.DELETE("/:id", contactHandler.Delete)
				contacts.GET("/:id/duplicate", contactHandler.Duplicate)

				// Note routes
				contacts.POST("/:id/notes", noteHandler.Create)
				contacts.GET("/:id/notes", noteHandler.List)
				contacts.DELETE("/:id/notes/:note_id", noteHandler.Delete)
			}
		}
	}

	// Catch-all route for undefined endpoints
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":      "Endpoint not found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString("request_id"),
		})
	})

	return router
}

// SetupHealthRoutes sets up only health check routes (useful for testing)
func SetupHealthRoutes(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	healthHandler := handlers.NewHealthHandler(db)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	return router
}
