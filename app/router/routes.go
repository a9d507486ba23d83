// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/swaggo/swag"
	"github.com/theunseenchapter/constructai-sub000/app/dto"
	"github.com/theunseenchapter/constructai-sub000/app/handlers"
	"github.com/theunseenchapter/constructai-sub000/app/middleware"
	"github.com/theunseenchapter/constructai-sub000/config"
	_ "github.com/theunseenchapter/constructai-sub000/docs"
	"github.com/theunseenchapter/constructai-sub000/utils"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	Shutdown(ctx context.Context) error
	GetApp() *fiber.App
}

// HealthFunc reports the state of the service and its backing stores
type HealthFunc func(ctx context.Context) dto.HealthResponse

// Handlers groups everything the router mounts
type Handlers struct {
	BOQ     handlers.BOQHandlerInterface
	Layout  handlers.LayoutHandlerInterface
	Pricing handlers.PricingHandlerInterface
	Auth    *middleware.AuthMiddleware
	Health  HealthFunc
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app    *fiber.App
	cfg    *config.ProductionConfig
	h      Handlers
	logger *logrus.Logger
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(cfg *config.ProductionConfig, h Handlers, log *logrus.Logger) Router {
	r := &FiberRouter{cfg: cfg, h: h, logger: log}

	fcfg := fiber.Config{
		AppName:      "ConstructAI BOQ API",
		ServerHeader: "ConstructAI",
		ErrorHandler: r.errorHandler,
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	}
	if len(cfg.Server.TrustedProxies) > 0 {
		fcfg.TrustProxy = true
		fcfg.TrustProxyConfig = fiber.TrustProxyConfig{Proxies: cfg.Server.TrustedProxies}
		fcfg.ProxyHeader = cfg.Server.ProxyHeader
	}
	r.app = fiber.New(fcfg)

	return r
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	r.setupMiddleware()

	api := r.app.Group("/api/v1")

	api.Get("/health", r.healthCheck)
	if r.cfg.Metrics.Enabled {
		api.Get(r.cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}
	if r.cfg.Server.EnableSwagger {
		api.Get("/swagger.json", r.serveSwaggerJSON)
	}

	api.Use(r.rateLimiter(r.cfg.Security.GlobalRateLimit))

	boq := api.Group("/boq")
	boq.Post("/estimate", r.h.BOQ.Estimate)
	boq.Get("/:boq_id", r.h.BOQ.Get)
	boq.Get("/:boq_id/export", r.h.BOQ.Export)

	layout := api.Group("/layout")
	layout.Post("/plan", r.h.Layout.Plan)

	pricing := api.Group("/pricing")
	pricing.Get("/current-prices", r.h.Pricing.CurrentPrices)
	pricing.Get("/materials/:material_code", r.h.Pricing.Material)
	pricing.Get("/price-history/:material_code", r.h.Pricing.PriceHistory)

	operator := r.h.Auth.OperatorAuthenticate()
	writes := r.rateLimiter(r.cfg.Security.PricingRateLimit)
	pricing.Post("/update-price", writes, operator, r.h.Pricing.UpdatePrice)
	pricing.Post("/refresh", writes, operator, r.h.Pricing.Refresh)

	r.app.Use(r.notFoundHandler)

	r.logger.WithField("module", "router").Info("routes configured")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: generateRequestID,
	}))

	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			r.logger.WithFields(logrus.Fields{
				"request_id": requestid.FromContext(c),
				"event":      "panic",
				"path":       c.Path(),
				"method":     c.Method(),
				"ip":         c.IP(),
			}).Errorf("recovered panic: %v", e)
		},
	}))

	sec := r.cfg.Security
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        sec.XContentTypeOptions,
		XFrameOptions:             sec.XFrameOptions,
		HSTSMaxAge:                sec.HSTSMaxAge,
		ContentSecurityPolicy:     sec.CSPPolicy,
		ReferrerPolicy:            sec.ReferrerPolicy,
		CrossOriginResourcePolicy: "cross-origin",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	r.app.Use(cors.New(cors.Config{
		AllowOrigins:     sec.AllowedOrigins,
		AllowMethods:     sec.AllowedMethods,
		AllowHeaders:     sec.AllowedHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: sec.AllowCredentials,
		MaxAge:           sec.CORSMaxAge,
	}))

	if r.cfg.Server.EnableCompression {
		r.app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	}

	if r.cfg.Logging.EnableAccessLog {
		lc := logger.Config{
			TimeFormat: time.RFC3339,
			TimeZone:   "UTC",
			Next: func(c fiber.Ctx) bool {
				return c.Path() == "/api/v1/health"
			},
		}
		if r.cfg.Logging.AccessLogFormat != "" {
			lc.Format = r.cfg.Logging.AccessLogFormat
		}
		r.app.Use(logger.New(lc))
	}

	if r.cfg.Metrics.Enabled {
		r.app.Use(middleware.Metrics())
	}
}

func (r *FiberRouter) rateLimiter(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
	})
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	r.logger.WithField("address", address).Info("starting HTTP server")
	if r.cfg.Security.TLSEnabled {
		return r.app.Listen(address, fiber.ListenConfig{
			CertFile:              r.cfg.Security.TLSCertFile,
			CertKeyFile:           r.cfg.Security.TLSKeyFile,
			DisableStartupMessage: true,
		})
	}
	return r.app.Listen(address, fiber.ListenConfig{DisableStartupMessage: true})
}

func (r *FiberRouter) Shutdown(ctx context.Context) error {
	return r.app.ShutdownWithContext(ctx)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	resp := dto.HealthResponse{
		Status:      "ok",
		Version:     r.cfg.Deployment.Version,
		Environment: r.cfg.Deployment.Environment,
		Database:    "disabled",
		Cache:       "disabled",
		Timestamp:   utils.UTCNowRFC3339(),
	}
	if r.h.Health != nil {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		resp = r.h.Health(ctx)
	}

	status := fiber.StatusOK
	if resp.Status != "ok" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(dto.APIResponse{
		Success: status == fiber.StatusOK,
		Message: "Service status",
		Data:    resp,
	})
}

func (r *FiberRouter) serveSwaggerJSON(c fiber.Ctx) error {
	doc, err := swag.ReadDoc()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
			Success: false,
			Message: "Failed to load Swagger documentation",
			Error: dto.ErrorDetail{
				Code: "SWAGGER_LOAD_ERROR",
			},
		})
	}
	c.Set("Content-Type", "application/json")
	return c.SendString(doc)
}

func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "Endpoint not found",
		Error: dto.ErrorDetail{
			Code:    "NOT_FOUND",
			Details: fiber.Map{"path": c.Path(), "method": c.Method()},
		},
	})
}

func (r *FiberRouter) errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "An internal server error occurred"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	r.logger.WithFields(logrus.Fields{
		"module":     "router",
		"status":     code,
		"path":       c.Path(),
		"request_id": requestid.FromContext(c),
	}).WithError(err).Error("request failed")

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestid.FromContext(c),
			},
		},
	})
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
