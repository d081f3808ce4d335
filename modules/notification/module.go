package notification

import (
	"context"

	corePersistence "github.com/arkiflo/arkiflo/modules/core/infrastructure/persistence"
	"github.com/arkiflo/arkiflo/modules/notification/infrastructure/persistence"
	"github.com/arkiflo/arkiflo/modules/notification/presentation/controllers"
	"github.com/arkiflo/arkiflo/modules/notification/services"
	servicesPersistence "github.com/arkiflo/arkiflo/modules/services/infrastructure/persistence"
	"github.com/arkiflo/arkiflo/pkg/application"
	"github.com/arkiflo/arkiflo/pkg/configuration"
)

func NewModule() *Module {
	return &Module{}
}

type Module struct {
	poller *services.Poller
}

func (m *Module) Register(app application.Application) error {
	notificationRepo := persistence.NewNotificationRepository()

	notificationService := services.NewNotificationService(notificationRepo, app.DB(), app.EventPublisher(), app.Logger())
	app.RegisterServices(notificationService)

	sweeper := services.NewSLASweeper(
		corePersistence.NewTenantRepository(),
		servicesPersistence.NewRequestRepository(),
		notificationService,
		app.DB(),
		app.Logger(),
	)
	m.poller = services.NewPoller(configuration.Use().Notification.PollInterval, app.Logger(), sweeper.Sweep)

	app.RegisterControllers(
		controllers.NewNotificationsController(app),
	)
	return nil
}

// Start launches the SLA sweep poller. It stops when ctx is cancelled.
func (m *Module) Start(ctx context.Context) {
	m.poller.Start(ctx)
}

func (m *Module) Name() string {
	return "notification"
}
