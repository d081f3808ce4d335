package modules

import (
	"github.com/redis/go-redis/v9"

	"github.com/arkiflo/arkiflo/modules/core"
	"github.com/arkiflo/arkiflo/modules/crm"
	"github.com/arkiflo/arkiflo/modules/finance"
	"github.com/arkiflo/arkiflo/modules/notification"
	"github.com/arkiflo/arkiflo/modules/project"
	"github.com/arkiflo/arkiflo/modules/services"
	"github.com/arkiflo/arkiflo/pkg/application"
	"github.com/arkiflo/arkiflo/pkg/configuration"
	"github.com/arkiflo/arkiflo/pkg/sidebar"
)

// NewNotificationModule is split out so the server can keep a handle on the
// module and start its poller after registration.
func NewNotificationModule() *notification.Module {
	return notification.NewModule()
}

// BuiltInModules is every module the stock server ships with, in
// registration order. Core goes first: the rest resolve users and
// permissions through it.
func BuiltInModules(store sidebar.Store, notifications *notification.Module) []application.Module {
	return []application.Module{
		core.NewModule(&core.ModuleOptions{
			SidebarStore: store,
		}),
		crm.NewModule(),
		project.NewModule(),
		finance.NewModule(),
		services.NewModule(),
		notifications,
	}
}

// NewSidebarStore picks the sidebar state backend: redis when a URL is
// configured, process memory otherwise.
func NewSidebarStore() sidebar.Store {
	conf := configuration.Use()
	if conf.UIState.RedisURL == "" {
		return sidebar.NewMemoryStore()
	}
	opts, err := redis.ParseURL(conf.UIState.RedisURL)
	if err != nil {
		conf.Logger().WithError(err).Warn("invalid sidebar redis url, using memory store")
		return sidebar.NewMemoryStore()
	}
	return sidebar.NewRedisStore(redis.NewClient(opts), conf.UIState.TTL)
}

func Load(app application.Application, mods ...application.Module) error {
	return app.RegisterModules(mods...)
}
