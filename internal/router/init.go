package router

import (
	userapp "github.com/driveup/account-service/internal/application"
	"github.com/driveup/account-service/internal/container"
	handlers "github.com/driveup/account-service/internal/interface/http"
	"github.com/driveup/account-service/internal/router/modules"
)

type UserModuleDeps struct {
	Service *userapp.Service
	Handler *handlers.UserHandler
}

func buildUserDeps() UserModuleDeps {
	service := userapp.NewService(
		container.GetStore(),
		container.GetJWT(),
		container.GetLogger(),
		container.GetMailPub(),
	)

	handler := handlers.NewUserHandler(service, container.GetLogger())

	return UserModuleDeps{Service: service, Handler: handler}
}

// InitModules initializes all application modules and registers them with the router registry.
// Called once during application startup.
func InitModules(r *Registry) {
	userDeps := buildUserDeps()
	r.Add(modules.NewUserModule(userDeps.Handler))
	if cfg := container.GetConfig(); cfg != nil && cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
