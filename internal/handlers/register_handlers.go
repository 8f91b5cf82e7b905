package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"

	"github.com/SochesdaThoeun/invoice-sys-sub000/cmd/docs"
	portssvc "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/services"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/middleware"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/platform/config"
)

// RouterOptions carries the optional pieces of the router.
type RouterOptions struct {
	Limiter     *limiter.Limiter
	HealthCheck HealthCheck
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	opts RouterOptions,
) {
	r.Use(cors.New(corsConfig(cfg)))
	if cfg.MetricsEnabled {
		r.Use(middleware.RequestMetrics())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.GET("/health", getHealth(opts.HealthCheck))

	setupAPIV1Routes(r, cfg, services, opts.Limiter)

	setupSwaggerRoutes(r, cfg)
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return c
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	lim *limiter.Limiter,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	if lim != nil {
		v1.Use(middleware.RateLimit(lim))
	}

	RegisterOrderRoutes(v1, service.Order, service.Invoice)
	RegisterInvoiceRoutes(v1, service.Invoice)
	RegisterQuoteRoutes(v1, service.Quote)
	RegisterLedgerRoutes(v1, service.Ledger, service.Category)
	RegisterReportingRoutes(v1, service.Reporting)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
