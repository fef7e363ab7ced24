package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers bundles the HTTP handlers the surfaces are built from. Uploads
// and SPA may be nil when local storage or the dashboard are disabled.
type Handlers struct {
	Auth          *handler.AuthHandler
	Users         *handler.UserHandler
	Invites       *handler.InviteHandler
	Regions       *handler.RegionHandler
	ReferenceData *handler.ReferenceDataHandler
	Store         *handler.StoreHandler
	Locations     *handler.LocationHandler
	Files         *handler.UploadHandler
	Uploads       *handler.UploadsHandler
	SPA           *handler.SPAHandler
	System        *handler.SystemHandler
}

// Options configures the middleware chains of the surfaces
type Options struct {
	JWTService *auth.JWTService
	Blacklist  auth.TokenBlacklist
	// APITokens lets admin routes authenticate with a user's API token
	APITokens middleware.APITokenAuthenticator

	AdminCORS []string
	StoreCORS []string
	// MaxBodySize caps request bodies; MaxUploadSize replaces it on the
	// multipart upload routes. Zero leaves bodies unlimited.
	MaxBodySize   int64
	MaxUploadSize int64
	// StoreRateLimiter throttles the store surface; nil disables it
	StoreRateLimiter *middleware.RateLimiter

	Swagger        middleware.SwaggerConfig
	SwaggerHandler gin.HandlerFunc

	MetricsPath    string
	MetricsHandler http.Handler

	Logger *zap.Logger
}

// Mount registers the admin, store, uploads, dashboard and system routes
// on engine
func Mount(engine *gin.Engine, h Handlers, opts Options) {
	// private upload keys reach /admin/uploads/:key/download as private%2F...
	engine.UseRawPath = true

	r := NewRouter(engine)
	r.Register(AdminPublicRoutes(h, opts)).
		Register(AdminRoutes(h, opts)).
		Register(StoreRoutes(h, opts)).
		Register(SystemRoutes(h, opts))

	if h.Uploads != nil {
		r.Register(NewDomainGroup("uploads", "/uploads").
			GET("/*key", h.Uploads.Serve).
			HEAD("/*key", h.Uploads.Serve))
	}
	if h.SPA != nil && h.SPA.Available() {
		r.Register(DashboardRoutes(h.SPA))
	} else if h.SPA != nil && opts.Logger != nil {
		opts.Logger.Warn("Admin dashboard build not found, dashboard is disabled", zap.String("base", h.SPA.Base()))
	}

	r.Setup()
}

// AdminPublicRoutes are the admin endpoints reachable without a session
func AdminPublicRoutes(h Handlers, opts Options) *DomainGroup {
	g := NewDomainGroup("admin-public", "/admin").
		Use(
			middleware.SurfaceCORS(opts.AdminCORS, true),
			middleware.Secure(),
			middleware.RouteBodyLimit(opts.MaxBodySize, nil),
		)

	g.OPTIONS("/*path", preflight)
	g.POST("/auth", h.Auth.Login)
	g.POST("/auth/refresh", h.Auth.Refresh)
	g.POST("/invites/accept", h.Invites.Accept)
	return g
}

// AdminRoutes are the authenticated admin endpoints
func AdminRoutes(h Handlers, opts Options) *DomainGroup {
	g := NewDomainGroup("admin", "/admin").Use(
		middleware.SurfaceCORS(opts.AdminCORS, true),
		middleware.Secure(),
		middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService:     opts.JWTService,
			TokenBlacklist: opts.Blacklist,
			APITokens:      opts.APITokens,
			Logger:         opts.Logger,
		}),
		middleware.RouteBodyLimit(opts.MaxBodySize, map[string]int64{
			"/admin/uploads":           opts.MaxUploadSize,
			"/admin/uploads/protected": opts.MaxUploadSize,
		}),
	)
	adminOnly := middleware.RequireRole(string(identity.UserRoleAdmin))

	g.GET("/auth", h.Auth.GetSession)
	g.DELETE("/auth", h.Auth.Logout)

	g.GET("/users", h.Users.List)
	g.POST("/users", adminOnly, h.Users.Create)
	g.GET("/users/:id", h.Users.Retrieve)
	g.POST("/users/:id", h.Users.Update)
	g.DELETE("/users/:id", adminOnly, h.Users.Delete)

	g.GET("/invites", h.Invites.List)
	g.POST("/invites", adminOnly, h.Invites.Create)
	g.DELETE("/invites/:id", adminOnly, h.Invites.Delete)
	g.POST("/invites/:id/resend", adminOnly, h.Invites.Resend)

	g.GET("/regions", h.Regions.List)
	g.POST("/regions", h.Regions.Create)
	g.GET("/regions/:id", h.Regions.Retrieve)
	g.POST("/regions/:id", h.Regions.Update)
	g.DELETE("/regions/:id", h.Regions.Delete)
	g.POST("/regions/:id/countries", h.Regions.AddCountry)
	g.DELETE("/regions/:id/countries/:country_code", h.Regions.RemoveCountry)

	g.GET("/countries", h.ReferenceData.ListCountries)
	g.GET("/currencies", h.ReferenceData.ListCurrencies)

	g.GET("/store", h.Store.Retrieve)
	g.POST("/store", h.Store.Update)
	g.POST("/store/currencies/:code", h.Store.AddCurrency)
	g.DELETE("/store/currencies/:code", h.Store.RemoveCurrency)

	g.GET("/stock-locations", h.Locations.List)
	g.POST("/stock-locations", h.Locations.Create)
	g.GET("/stock-locations/:id", h.Locations.Retrieve)
	g.POST("/stock-locations/:id", h.Locations.Update)
	g.DELETE("/stock-locations/:id", h.Locations.Delete)

	g.GET("/uploads", h.Files.List)
	g.POST("/uploads", h.Files.Upload)
	g.POST("/uploads/protected", h.Files.UploadProtected)
	g.DELETE("/uploads", h.Files.Delete)
	g.POST("/uploads/download-url", h.Files.DownloadURL)
	g.GET("/uploads/:key/download", h.Files.Download)

	g.GET("/system/info", h.System.Info)
	return g
}

// StoreRoutes are the storefront endpoints. A customer token is read when
// present but never required.
func StoreRoutes(h Handlers, opts Options) *DomainGroup {
	mw := []gin.HandlerFunc{
		middleware.SurfaceCORS(opts.StoreCORS, true),
		middleware.Secure(),
	}
	if opts.StoreRateLimiter != nil {
		mw = append(mw, middleware.RateLimit(opts.StoreRateLimiter))
	}
	mw = append(mw,
		middleware.OptionalJWTAuthMiddleware(opts.JWTService, opts.Blacklist),
		middleware.RouteBodyLimit(opts.MaxBodySize, nil),
	)

	g := NewDomainGroup("store", "/store").Use(mw...)
	g.OPTIONS("/*path", preflight)
	g.GET("/regions", h.Regions.StoreList)
	g.GET("/regions/:id", h.Regions.StoreRetrieve)
	return g
}

// SystemRoutes are the health check, metrics and API docs
func SystemRoutes(h Handlers, opts Options) *DomainGroup {
	g := NewDomainGroup("system", "/")
	g.GET("/health", h.System.Health)

	if opts.MetricsHandler != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		g.GET(path, gin.WrapH(opts.MetricsHandler))
	}

	if opts.SwaggerHandler != nil {
		jwt := middleware.JWTAuthMiddleware(opts.JWTService, opts.Blacklist)
		g.GET("/swagger/*any", middleware.SwaggerProtection(opts.Swagger, jwt), opts.SwaggerHandler)
	}
	return g
}

// DashboardRoutes serve the admin dashboard build with its own CSP
func DashboardRoutes(spa *handler.SPAHandler) *DomainGroup {
	g := NewDomainGroup("dashboard", spa.Base()).
		Use(middleware.SecureWithConfig(middleware.DashboardSecurityConfig()))
	g.GET("", spa.Redirect)
	g.GET("/*filepath", spa.Serve)
	g.HEAD("/*filepath", spa.Serve)
	return g
}

// preflight answers OPTIONS requests the CORS middleware let through
func preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
