package core

import (
	"github.com/arkiflo/arkiflo/modules/core/infrastructure/persistence"
	"github.com/arkiflo/arkiflo/modules/core/presentation/controllers"
	"github.com/arkiflo/arkiflo/modules/core/services"
	"github.com/arkiflo/arkiflo/pkg/application"
	"github.com/arkiflo/arkiflo/pkg/sidebar"
)

type ModuleOptions struct {
	SidebarStore sidebar.Store
}

func NewModule(opts *ModuleOptions) application.Module {
	if opts == nil {
		opts = &ModuleOptions{}
	}
	if opts.SidebarStore == nil {
		opts.SidebarStore = sidebar.NewMemoryStore()
	}
	return &Module{options: opts}
}

type Module struct {
	options *ModuleOptions
}

func (m *Module) Register(app application.Application) error {
	userRepo := persistence.NewUserRepository()
	sessionRepo := persistence.NewSessionRepository()
	tenantRepo := persistence.NewTenantRepository()

	authService := services.NewAuthService(userRepo, sessionRepo, app.EventPublisher())

	app.RegisterServices(
		authService,
		services.NewUserService(userRepo, app.EventPublisher()),
		services.NewTenantService(tenantRepo),
	)

	app.RegisterControllers(
		controllers.NewAuthController(app),
		controllers.NewAccountController(app, m.options.SidebarStore),
		controllers.NewUsersController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "core"
}
