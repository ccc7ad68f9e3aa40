package router

import (
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	docs "github.com/kassenwart/backend/api"
	"github.com/kassenwart/backend/internal/controllers/healthz"
	v1 "github.com/kassenwart/backend/internal/controllers/v1"
	"github.com/kassenwart/backend/internal/httputil"
	"github.com/kassenwart/backend/internal/models"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// This is set at build time, see Makefile.
var version = "0.0.0"

// Config sets up the router with all middlewares.
//
// The returned teardown function releases all global resources the router
// holds, currently the Prometheus collectors. It must be called before a
// second router is configured in the same process, which is what tests do.
func Config(url *url.URL) (*gin.Engine, func(), error) {
	// Set up the router and middlewares
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(URLMiddleware(url))
	r.Use(MetricsMiddleware())
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, out io.Writer, latency time.Duration) zerolog.Logger {
			return log.Logger.With().
				Str("request-id", requestid.Get(c)).
				Dur("latency", latency).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	// CORS settings
	allowOrigins, ok := os.LookupEnv("CORS_ALLOW_ORIGINS")
	if ok {
		log.Debug().Str("allowOrigins", allowOrigins).Msg("CORS")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Fields(allowOrigins),
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	if err := registerPrometheusMetrics(); err != nil {
		return nil, func() {}, err
	}

	docs.SwaggerInfo.Host = url.Host
	docs.SwaggerInfo.BasePath = url.Path
	docs.SwaggerInfo.Title = "Kassenwart"
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Description = "The backend for Kassenwart, a multi-tenant fund accounting solution. Check out the source code at https://github.com/kassenwart/backend."

	return r, func() { unregisterPrometheusMetrics() }, nil
}

// AttachRoutes attaches the API routes to the router group that is passed in
// Separating this from Config() allows us to attach it to different
// paths for different use cases.
func AttachRoutes(group *gin.RouterGroup) {
	group.GET("", GetRoot)
	group.OPTIONS("", OptionsRoot)
	group.GET("/version", GetVersion)
	group.OPTIONS("/version", OptionsVersion)

	healthz.RegisterRoutes(group.Group("/healthz"))

	group.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// pprof performance profiles
	enablePprof, ok := os.LookupEnv("ENABLE_PPROF")
	if ok && enablePprof == "true" {
		pprof.RouteRegister(group, "debug/pprof")
	}

	group.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 setup
	v1Group := group.Group("/v1")
	{
		v1Group.GET("", GetV1)
		v1Group.OPTIONS("", OptionsV1)
	}

	v1.RegisterUserRoutes(v1Group.Group("/users"))
	v1.RegisterFundRoutes(v1Group.Group("/funds"))
	v1.RegisterIncomeSourceRoutes(v1Group.Group("/income-sources"))
	v1.RegisterSourceDistributionRoutes(v1Group.Group("/source-distributions"))
	v1.RegisterReceiptRoutes(v1Group.Group("/receipts"))
	v1.RegisterManualDistributionRoutes(v1Group.Group("/manual-distributions"))
	v1.RegisterFundTransferRoutes(v1Group.Group("/transfers"))
	v1.RegisterCategoryRoutes(v1Group.Group("/categories"))
	v1.RegisterCostRoutes(v1Group.Group("/costs"))
	v1.RegisterMatchRuleRoutes(v1Group.Group("/match-rules"))
	v1.RegisterDistributionRoutes(v1Group.Group("/distributions"))
}

type RootResponse struct {
	Links RootLinks `json:"links"`
}

type RootLinks struct {
	Docs    string `json:"docs" example:"https://example.com/api/docs/index.html"`    // Swagger API documentation
	Healthz string `json:"healthz" example:"https://example.com/api/healthz"`         // Healthz endpoint
	Metrics string `json:"metrics" example:"https://example.com/api/metrics"`         // Prometheus metrics
	Version string `json:"version" example:"https://example.com/api/version"`         // Endpoint returning the version of the backend
	V1      string `json:"v1" example:"https://example.com/api/v1"`                   // List endpoint for all v1 endpoints
}

// @Summary		API root
// @Description	Entrypoint for the API, listing all endpoints
// @Tags			General
// @Success		200	{object}	RootResponse
// @Router			/ [get]
func GetRoot(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, RootResponse{
		Links: RootLinks{
			Docs:    url + "/docs/index.html",
			Healthz: url + "/healthz",
			Metrics: url + "/metrics",
			Version: url + "/version",
			V1:      url + "/v1",
		},
	})
}

type VersionResponse struct {
	Data VersionObject `json:"data"`
}

type VersionObject struct {
	Version string `json:"version" example:"1.1.0"` // the running version of the backend
}

// @Summary		API version
// @Description	Returns the software version of the API
// @Tags			General
// @Success		200	{object}	VersionResponse
// @Router			/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Data: VersionObject{
			Version: version,
		},
	})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/ [options]
func OptionsRoot(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/version [options]
func OptionsVersion(c *gin.Context) {
	httputil.OptionsGet(c)
}

type V1Response struct {
	Links V1Links `json:"links"`
}

type V1Links struct {
	Users               string `json:"users" example:"https://example.com/api/v1/users"`                              // URL of the user list endpoint
	Funds               string `json:"funds" example:"https://example.com/api/v1/funds"`                              // URL of the fund list endpoint
	IncomeSources       string `json:"incomeSources" example:"https://example.com/api/v1/income-sources"`             // URL of the income source list endpoint
	SourceDistributions string `json:"sourceDistributions" example:"https://example.com/api/v1/source-distributions"` // URL of the source distribution rule list endpoint
	Receipts            string `json:"receipts" example:"https://example.com/api/v1/receipts"`                        // URL of the receipt list endpoint
	ManualDistributions string `json:"manualDistributions" example:"https://example.com/api/v1/manual-distributions"` // URL of the manual distribution list endpoint
	Transfers           string `json:"transfers" example:"https://example.com/api/v1/transfers"`                      // URL of the fund transfer list endpoint
	Categories          string `json:"categories" example:"https://example.com/api/v1/categories"`                    // URL of the category list endpoint
	Costs               string `json:"costs" example:"https://example.com/api/v1/costs"`                              // URL of the cost list endpoint
	MatchRules          string `json:"matchRules" example:"https://example.com/api/v1/match-rules"`                   // URL of the match rule list endpoint
	Distributions       string `json:"distributions" example:"https://example.com/api/v1/distributions"`              // URL of the distribution batch endpoint
}

// @Summary		v1 API
// @Description	Returns general information about the v1 API
// @Tags			v1
// @Success		200	{object}	V1Response
// @Router			/v1 [get]
func GetV1(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL)) + "/v1"

	c.JSON(http.StatusOK, V1Response{
		Links: V1Links{
			Users:               url + "/users",
			Funds:               url + "/funds",
			IncomeSources:       url + "/income-sources",
			SourceDistributions: url + "/source-distributions",
			Receipts:            url + "/receipts",
			ManualDistributions: url + "/manual-distributions",
			Transfers:           url + "/transfers",
			Categories:          url + "/categories",
			Costs:               url + "/costs",
			MatchRules:          url + "/match-rules",
			Distributions:       url + "/distributions",
		},
	})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			v1
// @Success		204
// @Router			/v1 [options]
func OptionsV1(c *gin.Context) {
	httputil.OptionsGet(c)
}
