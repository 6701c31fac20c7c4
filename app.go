// @title           DNS and Domain Tools API
// @version         1.1
// @description     Bulk WHOIS/RDAP domain intelligence lookups with DNS and URL tooling.

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api
// @schemes   http https
package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/S-Pillow/bulk-whois-rdap-lookup/docs"
	"github.com/S-Pillow/bulk-whois-rdap-lookup/handlers"
	"github.com/S-Pillow/bulk-whois-rdap-lookup/pkg/lookup"
)

// App encapsulates all the components of the application
type App struct {
	Router         *gin.Engine
	LookupHandlers *handlers.LookupHandlers
	DNSHandlers    *handlers.DNSHandlers
	URLHandlers    *handlers.URLToolHandlers
	HealthHandler  *handlers.HealthHandler
}

// NewApp creates and initializes a new application instance
func NewApp() (*App, error) {
	svc := lookup.NewService()

	app := &App{
		Router:         gin.Default(),
		LookupHandlers: handlers.NewLookupHandlers(svc),
		DNSHandlers:    handlers.NewDNSHandlers(),
		URLHandlers:    handlers.NewURLToolHandlers(),
		HealthHandler:  handlers.NewHealthHandler(),
	}

	// Permissive CORS: the frontend is served from a different origin.
	app.Router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Cache-Control"},
	}))

	app.setupRoutes()
	return app, nil
}

// setupRoutes defines all the application routes
func (app *App) setupRoutes() {
	app.Router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the DNS and Domain Tools API. Visit /swagger/index.html for API documentation.",
		})
	})

	api := app.Router.Group("/api")
	{
		api.GET("/health", app.HealthHandler.HealthCheckHandler)

		api.POST("/whois-lookup", app.LookupHandlers.WhoisLookupHandler)
		api.GET("/whois-lookup", app.LookupHandlers.WhoisLookupGetHandler)

		api.POST("/dns-query", app.DNSHandlers.DNSQueryHandler)

		api.POST("/sanitize-url", app.URLHandlers.SanitizeURLHandler)
		api.POST("/unsanitize-url", app.URLHandlers.UnsanitizeURLHandler)
		api.POST("/extract-domains", app.URLHandlers.ExtractDomainsHandler)
	}

	app.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))
}

// Start runs the Gin HTTP server
func (app *App) Start(addr string) error {
	return app.Router.Run(addr)
}
