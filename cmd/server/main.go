package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	internalserver "github.com/arkiflo/arkiflo/internal/server"
	"github.com/arkiflo/arkiflo/modules"
	"github.com/arkiflo/arkiflo/modules/core/seed"
	"github.com/arkiflo/arkiflo/modules/notification"
	"github.com/arkiflo/arkiflo/pkg/application"
	"github.com/arkiflo/arkiflo/pkg/configuration"
	"github.com/arkiflo/arkiflo/pkg/eventbus"
	"github.com/arkiflo/arkiflo/pkg/sidebar"
)

func main() {
	root := &cobra.Command{
		Use:           "arkiflo",
		Short:         "Arkiflo business operations server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		logrus.WithError(err).Fatal("command failed")
	}
}

func newPool(ctx context.Context, conf *configuration.Configuration) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, conf.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func newApp(pool *pgxpool.Pool, conf *configuration.Configuration) (application.Application, *notification.Module, sidebar.Store, error) {
	log := conf.Logger()
	app := application.New(&application.Options{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(log),
		Logger:   log,
	})
	notifications := modules.NewNotificationModule()
	store := modules.NewSidebarStore()
	if err := modules.Load(app, modules.BuiltInModules(store, notifications)...); err != nil {
		return nil, nil, nil, err
	}
	return app, notifications, store, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := configuration.Use()
			defer conf.Unload()
			log := conf.Logger()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			pool, err := newPool(ctx, conf)
			if err != nil {
				return err
			}
			defer pool.Close()

			app, notifications, store, err := newApp(pool, conf)
			if err != nil {
				return err
			}

			notifications.Start(ctx)

			srv := internalserver.Default(&internalserver.DefaultOptions{
				Logger:       log,
				Application:  app,
				SidebarStore: store,
			})

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			log.Info("shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := configuration.Use()
			defer conf.Unload()

			pool, err := newPool(cmd.Context(), conf)
			if err != nil {
				return err
			}
			defer pool.Close()

			app, _, _, err := newApp(pool, conf)
			if err != nil {
				return err
			}
			return app.Migrate(cmd.Context(), conf.MigrationsDir)
		},
	}
}

func seedCmd() *cobra.Command {
	opts := seed.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Provision the initial tenant and admin user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := configuration.Use()
			defer conf.Unload()

			pool, err := newPool(cmd.Context(), conf)
			if err != nil {
				return err
			}
			defer pool.Close()

			return seed.Run(cmd.Context(), pool, conf.Logger(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.TenantName, "tenant", opts.TenantName, "tenant name")
	cmd.Flags().StringVar(&opts.TenantDomain, "domain", opts.TenantDomain, "tenant domain")
	cmd.Flags().StringVar(&opts.AdminEmail, "email", opts.AdminEmail, "admin email")
	cmd.Flags().StringVar(&opts.AdminPassword, "password", opts.AdminPassword, "admin password")
	return cmd
}
