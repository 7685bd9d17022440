package app

import (
	"net/http"

	"inputdash/internal/auth"
	"inputdash/internal/config"
	"inputdash/internal/handlers"
	"inputdash/internal/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, deps Deps, log *zap.Logger) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	requireBearer := auth.RequireBearer(deps.Tokens)

	userSvc := service.NewUserService(deps.Users)
	authHandler := handlers.NewAuthHandler(deps.Tokens, userSvc, log.Named("auth"))
	registerUserRoutes(r.Group("/users"), authHandler, requireBearer)

	inputSvc := service.NewInputService(deps.Inputs, deps.Cache, deps.Classifier, log.Named("inputs"))
	inputHandler := handlers.NewInputHandler(inputSvc, log.Named("inputs"))
	registerInputRoutes(r.Group("/inputs", requireBearer), inputHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Input Triage API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerUserRoutes(g *gin.RouterGroup, h *handlers.AuthHandler, requireBearer gin.HandlerFunc) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/logout", requireBearer, h.Logout)
	g.GET("/me", requireBearer, h.Me)
}

func registerInputRoutes(g *gin.RouterGroup, h *handlers.InputHandler) {
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/dashboard", h.Dashboard)
	g.GET("/:id", h.GetByID)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
