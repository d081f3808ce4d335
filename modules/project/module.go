package project

import (
	"github.com/arkiflo/arkiflo/modules/project/infrastructure/persistence"
	"github.com/arkiflo/arkiflo/modules/project/presentation/controllers"
	"github.com/arkiflo/arkiflo/modules/project/services"
	"github.com/arkiflo/arkiflo/pkg/application"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	projectRepo := persistence.NewProjectRepository()

	app.RegisterServices(
		services.NewProjectService(projectRepo, app.EventPublisher()),
	)

	app.RegisterControllers(
		controllers.NewProjectsController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "project"
}
