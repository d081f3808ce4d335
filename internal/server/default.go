package server

import (
	"github.com/sirupsen/logrus"

	coreServices "github.com/arkiflo/arkiflo/modules/core/services"
	"github.com/arkiflo/arkiflo/pkg/application"
	"github.com/arkiflo/arkiflo/pkg/server"
	"github.com/arkiflo/arkiflo/pkg/sidebar"
)

type DefaultOptions struct {
	Logger       *logrus.Logger
	Application  application.Application
	SidebarStore sidebar.Store
}

// Default assembles the stock HTTP server: session resolution through the
// core auth service, the full middleware stack, every registered controller.
func Default(options *DefaultOptions) *server.HTTPServer {
	authService := options.Application.Service(coreServices.AuthService{}).(*coreServices.AuthService)
	return server.New(&server.Options{
		App:             options.Application,
		Logger:          options.Logger,
		SidebarStore:    options.SidebarStore,
		SessionResolver: authService.ResolveSession,
	})
}
