package application

import (
	"context"
	"fmt"
	"reflect"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/arkiflo/arkiflo/pkg/eventbus"
)

// Module is one business area (core, crm, finance, ...). Register wires its
// repositories, services, and controllers into the shared registry.
type Module interface {
	Name() string
	Register(app Application) error
}

// Controller registers a set of routes under the application router.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

type Application interface {
	DB() *pgxpool.Pool
	EventPublisher() eventbus.EventBus
	Logger() *logrus.Logger

	RegisterModules(modules ...Module) error
	RegisterServices(services ...interface{})
	RegisterControllers(controllers ...Controller)

	// Service returns the registered service matching the type of the
	// given zero value. Panics when absent: a missing service is a wiring
	// bug, not a runtime condition.
	Service(service interface{}) interface{}
	Controllers() []Controller

	// Migrate applies the embedded SQL migrations.
	Migrate(ctx context.Context, dir string) error
}

type Options struct {
	Pool     *pgxpool.Pool
	EventBus eventbus.EventBus
	Logger   *logrus.Logger
}

func New(opts *Options) Application {
	return &application{
		pool:     opts.Pool,
		eventBus: opts.EventBus,
		logger:   opts.Logger,
		services: map[reflect.Type]interface{}{},
	}
}

type application struct {
	pool        *pgxpool.Pool
	eventBus    eventbus.EventBus
	logger      *logrus.Logger
	services    map[reflect.Type]interface{}
	controllers []Controller
}

func (a *application) DB() *pgxpool.Pool {
	return a.pool
}

func (a *application) EventPublisher() eventbus.EventBus {
	return a.eventBus
}

func (a *application) Logger() *logrus.Logger {
	return a.logger
}

func (a *application) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.Register(a); err != nil {
			return fmt.Errorf("registering module %s: %w", m.Name(), err)
		}
		a.logger.Infof("registered module %s", m.Name())
	}
	return nil
}

func (a *application) RegisterServices(services ...interface{}) {
	for _, s := range services {
		a.services[reflect.TypeOf(s)] = s
	}
}

func (a *application) RegisterControllers(controllers ...Controller) {
	a.controllers = append(a.controllers, controllers...)
}

func (a *application) Service(service interface{}) interface{} {
	t := reflect.TypeOf(service)
	if t.Kind() != reflect.Ptr {
		t = reflect.PointerTo(t)
	}
	svc, ok := a.services[t]
	if !ok {
		panic(fmt.Sprintf("service %s not registered", t))
	}
	return svc
}

func (a *application) Controllers() []Controller {
	out := make([]Controller, len(a.controllers))
	copy(out, a.controllers)
	return out
}

func (a *application) Migrate(ctx context.Context, dir string) error {
	db := stdlib.OpenDBFromPool(a.pool)
	defer func() {
		_ = db.Close()
	}()
	goose.SetLogger(a.logger)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, dir)
}
