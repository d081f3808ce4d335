package services

import (
	"github.com/arkiflo/arkiflo/modules/services/infrastructure/persistence"
	"github.com/arkiflo/arkiflo/modules/services/presentation/controllers"
	"github.com/arkiflo/arkiflo/modules/services/services"
	"github.com/arkiflo/arkiflo/pkg/application"
	"github.com/arkiflo/arkiflo/pkg/configuration"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	requestRepo := persistence.NewRequestRepository()

	app.RegisterServices(
		services.NewRequestService(requestRepo, app.EventPublisher(), configuration.Use().ServiceLevel),
	)

	app.RegisterControllers(
		controllers.NewRequestsController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "services"
}
