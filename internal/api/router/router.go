package router

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/d60-Lab/foodgram/docs"
	"github.com/d60-Lab/foodgram/internal/api/handler"
	"github.com/d60-Lab/foodgram/internal/api/middleware"
	"github.com/d60-Lab/foodgram/pkg/auth"
	"github.com/d60-Lab/foodgram/pkg/metrics"
)

// Options 路由装配参数；零值字段对应的功能关闭
type Options struct {
	ServiceName string
	Tracing     bool
	Sentry      bool
	RateLimit   *middleware.IPRateLimiter
	Metrics     *metrics.Metrics
	// MediaURL/MediaRoot 本地存储时对外提供图片
	MediaURL  string
	MediaRoot string
	DB        *gorm.DB
}

// New 组装 gin 引擎与全部路由
func New(h *handler.Handler, tokens *auth.Manager, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	if opts.Sentry {
		r.Use(middleware.Sentry())
	}
	if opts.Tracing {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
		r.GET("/metrics", opts.Metrics.Handler())
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.GET("/healthz", healthz(opts.DB))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if opts.MediaRoot != "" && opts.MediaURL != "" {
		r.Static(opts.MediaURL, opts.MediaRoot)
	}

	api := r.Group("/api")
	if opts.RateLimit != nil {
		api.Use(opts.RateLimit.Middleware())
	}
	api.Use(middleware.Auth(tokens))
	authed := middleware.RequireViewer()

	api.GET("/tags", h.ListTags)
	api.GET("/tags/:id", h.GetTag)
	api.GET("/ingredients", h.ListIngredients)
	api.GET("/ingredients/:id", h.GetIngredient)

	recipes := api.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", authed, h.CreateRecipe)
		recipes.GET("/download_shopping_cart", authed, h.DownloadShoppingCart)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PATCH("/:id", authed, h.UpdateRecipe)
		recipes.DELETE("/:id", authed, h.DeleteRecipe)
		recipes.POST("/:id/favorite", authed, h.AddFavorite)
		recipes.DELETE("/:id/favorite", authed, h.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", authed, h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", authed, h.RemoveFromCart)
	}

	users := api.Group("/users")
	{
		users.GET("/me", authed, h.Me)
		users.GET("/subscriptions", authed, h.ListSubscriptions)
		users.GET("/:id", h.GetUser)
		users.POST("/:id/subscribe", authed, h.Subscribe)
		users.DELETE("/:id/subscribe", authed, h.Unsubscribe)
	}

	return r
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(c.Request.Context())
			}
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
