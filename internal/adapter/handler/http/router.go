package http

import (
	"net/http"

	"github.com/kpa-erp/kpa_forms_microservice/internal/config"
	"github.com/kpa-erp/kpa_forms_microservice/internal/core/ports"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Router struct {
	router *gin.Engine
}

func NewRouter(
	cfg *config.HTTP,
	tokenService ports.TokenService,
	userHandler *UserHandler,
	wheelHandler *WheelHandler,
	bogieHandler *BogieHandler,
) (*Router, error) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigins},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// User routes
	users := router.Group("/api/users")
	{
		users.POST("/register", userHandler.Register)
		users.POST("/login", userHandler.Login)
		users.POST("/refresh", userHandler.Refresh)

		authed := users.Group("")
		authed.Use(AuthMiddleware(tokenService))
		{
			authed.GET("/profile", userHandler.GetProfile)
			authed.PUT("/profile", userHandler.UpdateProfile)
			authed.POST("/change-password", userHandler.ChangePassword)
			authed.GET("/users", userHandler.ListUsers)
			authed.POST("/users", userHandler.CreateUser)
			authed.GET("/users/:id", userHandler.GetUser)
			authed.PUT("/users/:id", userHandler.UpdateUser)
			authed.DELETE("/users/:id", userHandler.DeleteUser)
		}
	}

	// Forms routes
	forms := router.Group("/api/forms")
	forms.Use(AuthMiddleware(tokenService))
	{
		forms.POST("/wheel-specifications", wheelHandler.CreateWheelSpecification)
		forms.GET("/wheel-specifications", wheelHandler.GetWheelSpecifications)
		forms.POST("/bogie-checksheet", bogieHandler.CreateBogieChecksheet)
		forms.GET("/bogie-checksheets", bogieHandler.GetBogieChecksheets)
	}

	return &Router{router: router}, nil
}

func (r *Router) Serve(addr string) error {
	return r.router.Run(addr)
}

func (r *Router) Engine() *gin.Engine {
	return r.router
}
