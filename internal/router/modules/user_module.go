package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/driveup/account-service/internal/container"
	handlers "github.com/driveup/account-service/internal/interface/http"
	"github.com/driveup/account-service/internal/interface/middleware"
)

// UserModule wires the account endpoints into routes.
// Public: GET /api/user/check, POST /api/register, POST /api/login/google
// Bearer-gated: POST /api/profile-picture

type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	checkLimiter := middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByIP(), nil)
	registerLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	uploadLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/user/check", checkLimiter, m.Handler.CheckUser)
	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login/google", loginLimiter, m.Handler.LoginGoogle)

	rg.POST("/profile-picture", uploadLimiter, middleware.RequireBearer(), m.Handler.UploadProfilePicture)
}
