package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhive/task-system/internal/api/handler"
	"github.com/taskhive/task-system/internal/api/middleware"
	"github.com/taskhive/task-system/internal/core/domain"
	"github.com/taskhive/task-system/internal/core/ports"
	"github.com/taskhive/task-system/internal/core/scope"
	"github.com/taskhive/task-system/internal/core/service"
	mongorepo "github.com/taskhive/task-system/internal/infrastructure/db/mongo"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	notifier ports.Notifier,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("taskhive"))

	// --- Repositories ---
	userRepo := mongorepo.NewUserRepository(db)
	taskRepo := mongorepo.NewTaskRepository(db)
	groupRepo := mongorepo.NewGroupRepository(db)
	userTaskRepo := mongorepo.NewUserTaskRepository(db)
	seqRepo := mongorepo.NewSequenceRepository(db)

	// --- Core services ---
	scopes := scope.NewEngine(groupRepo)
	authService := service.NewAuthService(userRepo, seqRepo, jwtSecret, tokenTTL)
	userService := service.NewUserService(userRepo, scopes, log)
	taskService := service.NewTaskService(taskRepo, userRepo, groupRepo, userTaskRepo, seqRepo, scopes, notifier, log)
	groupService := service.NewGroupService(groupRepo, userRepo, taskRepo, userTaskRepo, seqRepo, scopes, log)
	userTaskService := service.NewUserTaskService(userTaskRepo, userRepo)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	taskHandler := handler.NewTaskHandler(taskService)
	groupHandler := handler.NewGroupHandler(groupService)
	userTaskHandler := handler.NewUserTaskHandler(userTaskService)

	authRequired := middleware.Auth(jwtSecret, authService)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	adminOrManager := middleware.RBAC(domain.RoleAdmin, domain.RoleManager)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/seed-admin", authHandler.SeedAdmin)
	e.POST("/auth/register", authHandler.Register, authRequired, adminOnly)

	v1 := e.Group("/v1", authRequired)

	// --- Users ---
	users := v1.Group("/users")
	users.GET("", userHandler.List)
	users.POST("", authHandler.Register, adminOnly)
	users.GET("/:id", userHandler.Get)
	users.PATCH("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete, adminOnly)
	users.PATCH("/:id/active", userHandler.SetActive, adminOnly)
	users.PATCH("/:id/password", userHandler.ChangePassword)

	// --- Tasks ---
	tasks := v1.Group("/tasks")
	tasks.POST("", taskHandler.Create, adminOrManager)
	tasks.GET("", taskHandler.List)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PATCH("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete, adminOnly)
	tasks.PATCH("/:id/status", taskHandler.UpdateStatus)
	tasks.POST("/:id/assign", taskHandler.Assign, adminOrManager)
	tasks.DELETE("/:id/assign", taskHandler.Unassign, adminOrManager)
	tasks.POST("/:id/comments", taskHandler.AddComment)
	tasks.POST("/:id/reopen", taskHandler.Reopen)

	// --- Groups ---
	groups := v1.Group("/groups")
	groups.POST("", groupHandler.Create, adminOrManager)
	groups.GET("", groupHandler.List)
	groups.GET("/mine", groupHandler.Mine)
	groups.GET("/:id", groupHandler.Get)
	groups.PATCH("/:id", groupHandler.Update)
	groups.DELETE("/:id", groupHandler.Delete)
	groups.POST("/:id/tasks", groupHandler.AddTask)
	groups.GET("/:id/analytics", groupHandler.Analytics)

	// --- Assignment ledger ---
	v1.GET("/user-tasks/:userId", userTaskHandler.List)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
