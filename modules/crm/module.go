package crm

import (
	"github.com/arkiflo/arkiflo/modules/crm/infrastructure/persistence"
	"github.com/arkiflo/arkiflo/modules/crm/presentation/controllers"
	"github.com/arkiflo/arkiflo/modules/crm/services"
	"github.com/arkiflo/arkiflo/pkg/application"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	leadRepo := persistence.NewLeadRepository()

	app.RegisterServices(
		services.NewLeadService(leadRepo, app.EventPublisher()),
		services.NewLeadSuggestService(leadRepo, app.DB(), app.EventPublisher(), app.Logger()),
	)

	app.RegisterControllers(
		controllers.NewLeadsController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "crm"
}
