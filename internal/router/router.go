package router

import (
	"time"

	"github.com/ismailhaddouche/PiControl/internal/config"
	"github.com/ismailhaddouche/PiControl/internal/handler"
	"github.com/ismailhaddouche/PiControl/internal/middleware"
	"github.com/ismailhaddouche/PiControl/internal/repository"
	"github.com/ismailhaddouche/PiControl/internal/rfid"
	"github.com/ismailhaddouche/PiControl/internal/service"
	"github.com/ismailhaddouche/PiControl/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps carries the pieces constructed in main that must be shared with the
// worker pool: the check-in service (single instance — it owns the
// per-employee locks), the reader service, and the job dispatcher.
type Deps struct {
	CheckIns   service.CheckInService
	Reader     *rfid.Service
	Pending    *rfid.PendingStore
	Events     *rfid.Broadcaster
	Dispatcher *worker.Dispatcher
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	checkinRepo := repository.NewCheckInRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	configRepo := repository.NewConfigRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	audit := service.NewAuditRecorder(auditRepo)
	authSvc := service.NewAuthService(userRepo, cfg)
	employeeSvc := service.NewEmployeeService(employeeRepo, audit)
	reportSvc := service.NewReportService(checkinRepo)
	configSvc := service.NewConfigService(configRepo, audit)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	employeesH := handler.NewEmployeeHandler(employeeSvc)
	checkinsH := handler.NewCheckInHandler(deps.CheckIns, deps.Reader)
	reportsH := handler.NewReportHandler(reportSvc, employeeSvc, deps.Dispatcher, cfg.PDFStoragePath)
	rfidH := handler.NewRFIDHandler(deps.Reader, deps.Pending, deps.Events, employeeSvc)
	auditH := handler.NewAuditHandler(audit)
	configH := handler.NewConfigHandler(configSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Reader scans — no auth: badge readers post here fire-and-forget
	r.POST("/v1/checkins", checkinsH.Scan)

	// Protected routes — the panel is admin-only
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW, middleware.RequireAdmin())
	{
		employees := v1.Group("/employees")
		{
			employees.PUT("", employeesH.Upsert)
			employees.GET("", employeesH.List)
			employees.GET("/:document_id", employeesH.Get)
			employees.PUT("/:document_id/rfid", employeesH.AssignTag)
			employees.POST("/:document_id/archive", employeesH.Archive)
			employees.POST("/:document_id/restore", employeesH.Restore)
			employees.GET("/:document_id/checkins", checkinsH.ListByEmployee)
		}

		v1.POST("/checkins/manual", checkinsH.Manual)
		v1.GET("/checkins", checkinsH.ListRecent)

		reports := v1.Group("/reports")
		{
			reports.GET("/hours/:document_id", reportsH.Hours)
			reports.GET("/hours/:document_id/pdf", reportsH.PDF)
			reports.POST("/hours/:document_id/email", reportsH.Email)
		}

		rfidG := v1.Group("/rfid")
		{
			rfidG.POST("/assign-mode", rfidH.ArmAssignMode)
			rfidG.GET("/pending", rfidH.GetPending)
			rfidG.POST("/assign", rfidH.AssignPending)
			rfidG.POST("/mock-scan", rfidH.MockScan)
			rfidG.GET("/events", rfidH.Events)
		}

		v1.GET("/audit", auditH.List)

		cfgG := v1.Group("/config")
		{
			cfgG.GET("", configH.List)
			cfgG.GET("/:key", configH.Get)
			cfgG.PUT("/:key", configH.Set)
		}

		users := v1.Group("/users")
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
