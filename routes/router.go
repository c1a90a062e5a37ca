package routes

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cppla/inkwell/config"
	"github.com/cppla/inkwell/controllers"
	"github.com/cppla/inkwell/middleware"
	"github.com/cppla/inkwell/services"
	"github.com/cppla/inkwell/utils"
	"github.com/cppla/inkwell/views"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(users *services.UserService, posts *services.PostService) (*gin.Engine, error) {
	cfg := config.Get()
	switch strings.ToLower(cfg.App.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// request log goes to its own file when configured
	accessLog := utils.Logger
	if cfg.Log.GinPath != "" {
		gl, err := utils.NewRollingFileLogger(cfg.Log.GinPath, cfg.Log)
		if err != nil {
			return nil, fmt.Errorf("opening access log: %w", err)
		}
		accessLog = gl
	}
	r.Use(utils.Ginzap(accessLog, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(accessLog, true))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.App.AllowedOrigins) == 1 && cfg.App.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.App.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Use(middleware.SessionLoader())
	r.Use(middleware.PageViewRecorder())

	tmpl, err := views.Load()
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)
	r.MaxMultipartMemory = int64(cfg.Uploads.MaxSizeMB) << 20
	utils.InitFlashStore(cfg.App.SessionSecret, cfg.App.SecureCookies)

	r.Static(cfg.Uploads.URLPrefix, cfg.Uploads.ImagesDir)

	r.GET("/health", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "ok")
	})

	authController := controllers.NewAuthController(users)
	postController := controllers.NewPostController(posts, cfg.Uploads)

	r.GET("/", postController.Index)
	r.GET("/register", authController.RegisterForm)
	r.POST("/register", authController.Register)
	r.GET("/login", authController.LoginForm)
	r.POST("/login", authController.Login)
	r.GET("/logout", authController.Logout)
	r.GET("/post/:id", postController.View)

	protected := r.Group("")
	protected.Use(middleware.AuthRequired())
	protected.GET("/new", postController.New)
	protected.POST("/add", postController.Add)
	protected.GET("/edit/:id", postController.EditForm)
	protected.POST("/edit/:id", postController.Edit)
	protected.GET("/delete/:id", postController.Delete)
	protected.POST("/delete/:id", postController.Delete)

	r.NoRoute(func(ctx *gin.Context) {
		utils.RenderError(ctx, http.StatusNotFound, "Page not found.")
	})

	return r, nil
}
