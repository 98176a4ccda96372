// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"vibepress/internal/cache"
	"vibepress/internal/config"
	"vibepress/internal/database"
	"vibepress/internal/middleware"
	"vibepress/internal/repository"
	"vibepress/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	userRepo       repository.UserRepository
	blogRepo       repository.BlogRepository
	commentRepo    repository.CommentRepository
	blogService    *service.BlogService
	commentService *service.CommentService
	adminService   *service.AdminService
	userService    *service.UserService
	promMiddleware *fiberprometheus.FiberPrometheus
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	middleware.InitMiddleware(cfg)

	userRepo := repository.NewUserRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		userRepo:       userRepo,
		blogRepo:       blogRepo,
		commentRepo:    commentRepo,
		promMiddleware: middleware.InitMetrics("vibepress-api"),
	}
	server.blogService = service.NewBlogService(blogRepo)
	server.commentService = service.NewCommentService(commentRepo, blogRepo)
	server.adminService = service.NewAdminService(userRepo, blogRepo)
	server.userService = service.NewUserService(userRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// HTTP request metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Distributed tracing spans per request
	app.Use(middleware.TracingMiddleware())

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS should run before middlewares that can short-circuit (e.g. the
	// limiter) so browser clients still receive CORS headers on errors.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Prometheus scrape endpoint
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Public blog routes. /mine and /author must be registered before /:id.
	posts := api.Group("/posts")
	posts.Get("/mine", middleware.AuthRequired(), s.GetMyBlogs)
	posts.Get("/author/:userId", s.GetAuthorBlogs)
	posts.Get("/", s.GetBlogs)
	posts.Get("/:id", s.GetBlog)

	// Public comment and profile reads
	api.Get("/comments/post/:postId", s.GetComments)
	api.Get("/users/:id", s.GetUserProfile)

	// Protected routes: authenticated and not blocked
	protected := api.Group("", middleware.AuthRequired(), s.RequireActiveUser)
	protected.Post("/posts", middleware.RateLimit(
		s.redis, 10, 10*time.Minute, "create-post"), s.CreateBlog)
	protected.Put("/posts/:id", s.UpdateBlog)
	protected.Delete("/posts/:id", s.DeleteBlog)
	protected.Post("/posts/:id/like", middleware.RateLimit(
		s.redis, 60, time.Minute, "like"), s.ToggleLike)
	protected.Post("/comments", middleware.RateLimit(
		s.redis, 30, time.Minute, "comment"), s.CreateComment)
	protected.Delete("/comments/:id", s.DeleteComment)

	// Admin routes
	admin := api.Group("/admin", middleware.AuthRequired(), middleware.AdminRequired())
	admin.Get("/posts", s.GetAdminBlogs)
	admin.Get("/users", s.GetAdminUsers)
	admin.Put("/users/:id/block", s.BlockUser)
	admin.Delete("/users/:id", s.DeleteUser)
	admin.Get("/stats", s.GetStats)
}

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.WarnContext(ctx, "redis close failed", "error", err.Error())
		}
	}

	sqlDB, err := s.db.DB()
	if err == nil {
		return sqlDB.Close()
	}
	return nil
}
