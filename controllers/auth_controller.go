package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/inkwell/config"
	"github.com/cppla/inkwell/middleware"
	"github.com/cppla/inkwell/services"
	"github.com/cppla/inkwell/utils"
)

// AuthController handles registration, login and logout.
type AuthController struct {
	users *services.UserService
}

// NewAuthController creates an AuthController.
func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{users: users}
}

// RegisterForm renders the registration page.
func (a *AuthController) RegisterForm(ctx *gin.Context) {
	utils.RenderPage(ctx, http.StatusOK, "register.html", gin.H{"Title": "Register"})
}

// Register creates an account and sends the user to the login page.
func (a *AuthController) Register(ctx *gin.Context) {
	username := ctx.PostForm("username")
	password := ctx.PostForm("password")

	user, err := a.users.Register(username, password)
	switch {
	case errors.Is(err, services.ErrDuplicateUser):
		utils.Text(ctx, http.StatusBadRequest, "User already exists")
		return
	case errors.Is(err, services.ErrInvalidInput):
		utils.Text(ctx, http.StatusBadRequest, "Username and password are required")
		return
	case err != nil:
		utils.Logger.Error("register failed", zap.String("username", username), zap.Error(err))
		utils.RenderError(ctx, http.StatusInternalServerError, "Could not create the account, please try again.")
		return
	}

	utils.Logger.Info("user registered", zap.String("username", user.Username))
	utils.AddFlash(ctx, "Account created, please log in.")
	utils.SeeOther(ctx, "/login")
}

// LoginForm renders the login page.
func (a *AuthController) LoginForm(ctx *gin.Context) {
	utils.RenderPage(ctx, http.StatusOK, "login.html", gin.H{"Title": "Login"})
}

// Login verifies credentials and issues the session cookie.
func (a *AuthController) Login(ctx *gin.Context) {
	user, err := a.users.Authenticate(ctx.PostForm("username"), ctx.PostForm("password"))
	if err != nil {
		utils.Text(ctx, http.StatusBadRequest, "Invalid credentials")
		return
	}

	cfg := config.Get()
	ttl := time.Duration(cfg.App.SessionTTLHours) * time.Hour
	token, _, err := utils.GenerateSessionToken(user.Username, ttl)
	if err != nil {
		utils.Logger.Error("issuing session failed", zap.Error(err))
		utils.RenderError(ctx, http.StatusInternalServerError, "Could not log you in, please try again.")
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(utils.SessionCookieName, token, int(ttl.Seconds()), "/", "", cfg.App.SecureCookies, true)
	utils.AddFlash(ctx, "Welcome back, "+user.Username+".")
	utils.SeeOther(ctx, "/")
}

// Logout revokes the current session and clears the cookie.
func (a *AuthController) Logout(ctx *gin.Context) {
	if id := ctx.GetString(middleware.ContextTokenIDKey); id != "" {
		utils.BlacklistToken(id, ctx.GetTime(middleware.ContextTokenExpiryKey))
	}

	cfg := config.Get()
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(utils.SessionCookieName, "", -1, "/", "", cfg.App.SecureCookies, true)
	utils.SeeOther(ctx, "/")
}
