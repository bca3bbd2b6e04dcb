package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MolodoyDEV/diploma/internal/adapter/http/handler"
	"github.com/MolodoyDEV/diploma/internal/adapter/http/middleware"
	"github.com/MolodoyDEV/diploma/internal/adapter/repository/gormrepo"
	"github.com/MolodoyDEV/diploma/internal/domain/entity"
	"github.com/MolodoyDEV/diploma/internal/domain/service"
	"github.com/MolodoyDEV/diploma/internal/infrastructure/config"
	"github.com/MolodoyDEV/diploma/internal/infrastructure/metrics"
	"github.com/MolodoyDEV/diploma/internal/usecase"
)

// Dependencies are the long-lived objects the router wires into handlers.
// Redis may be nil.
type Dependencies struct {
	Config     *config.Config
	DB         *gorm.DB
	Redis      *redis.Client
	Registry   *usecase.ModelRegistry
	Translator service.Translator
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	Logger     *zap.Logger
}

// Setup creates and configures the Gin router
func Setup(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins...))
	router.Use(middleware.Secure(cfg.Server.Mode == gin.DebugMode))
	router.Use(middleware.Metrics(deps.Metrics))

	// Health endpoints
	healthHandler := handler.NewHealthHandler(deps.DB, deps.Redis, deps.Registry)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	// Initialize repositories
	userRepo := gormrepo.NewUserRepository(deps.DB)
	roleRepo := gormrepo.NewRoleRepository(deps.DB)
	settingRepo := gormrepo.NewSettingRepository(deps.DB)

	// Initialize usecases
	authUC := usecase.NewAuthUsecase(userRepo)
	predictUC := usecase.NewPredictUsecase(deps.Registry, deps.Translator, cfg.Translator.TargetLanguage, deps.Logger)
	thresholds := usecase.NewThresholdStore(settingRepo)
	userUC := usecase.NewUserUsecase(userRepo, roleRepo)
	roleUC := usecase.NewRoleUsecase(roleRepo)
	settingUC := usecase.NewSettingUsecase(settingRepo)

	// Initialize handlers
	predictHandler := handler.NewPredictHandler(predictUC, thresholds, deps.Metrics, deps.Logger)
	adminHandler := handler.NewAdminHandler(userUC, roleUC, settingUC)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.BasicAuth(authUC, cfg.Auth.Realm, deps.Logger))
	{
		v1.POST("/predict", middleware.RequireRole(cfg.Auth.PredictRoles...), predictHandler.Predict)

		admin := v1.Group("/admin", middleware.RequireRole(entity.AdminRoleName))
		{
			users := admin.Group("/users")
			{
				users.POST("", adminHandler.CreateUser)
				users.GET("", adminHandler.ListUsers)
				users.GET("/:id", adminHandler.GetUser)
				users.PATCH("/:id", adminHandler.UpdateUser)
				users.DELETE("/:id", adminHandler.DeleteUser)
			}

			roles := admin.Group("/roles")
			{
				roles.POST("", adminHandler.CreateRole)
				roles.GET("", adminHandler.ListRoles)
				roles.GET("/:id", adminHandler.GetRole)
				roles.PUT("/:id", adminHandler.UpdateRole)
				roles.DELETE("/:id", adminHandler.DeleteRole)
			}

			settings := admin.Group("/settings")
			{
				settings.POST("", adminHandler.CreateSetting)
				settings.GET("", adminHandler.ListSettings)
				settings.GET("/:id", adminHandler.GetSetting)
				settings.PATCH("/:id", adminHandler.UpdateSetting)
				settings.DELETE("/:id", adminHandler.DeleteSetting)
			}
		}
	}

	return router
}
