// Package seed provisions the initial tenant and admin account for a fresh
// database. Running it twice is safe: an existing tenant domain short-circuits.
package seed

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/arkiflo/arkiflo/modules/core/domain/aggregates/user"
	"github.com/arkiflo/arkiflo/modules/core/domain/entities/tenant"
	"github.com/arkiflo/arkiflo/modules/core/domain/value_objects/role"
	"github.com/arkiflo/arkiflo/modules/core/infrastructure/persistence"
	"github.com/arkiflo/arkiflo/modules/core/permissions"
	"github.com/arkiflo/arkiflo/pkg/composables"
)

type Options struct {
	TenantName    string
	TenantDomain  string
	AdminEmail    string
	AdminPassword string
}

func DefaultOptions() Options {
	return Options{
		TenantName:    "Arkiflo",
		TenantDomain:  "localhost",
		AdminEmail:    "admin@arkiflo.local",
		AdminPassword: "admin",
	}
}

// Run creates the tenant and its admin user inside one transaction.
func Run(ctx context.Context, pool *pgxpool.Pool, log *logrus.Logger, opts Options) error {
	tenantRepo := persistence.NewTenantRepository()
	userRepo := persistence.NewUserRepository()

	ctx = composables.WithPool(ctx, pool)
	return composables.InTx(ctx, func(txCtx context.Context) error {
		if existing, err := tenantRepo.GetByDomain(txCtx, opts.TenantDomain); err == nil {
			log.Infof("tenant %s already seeded", existing.Name())
			return nil
		}

		t := tenant.New(opts.TenantName)
		t.SetDomain(opts.TenantDomain)
		created, err := tenantRepo.Create(txCtx, t)
		if err != nil {
			return errors.Wrap(err, "seeding tenant")
		}

		admin := user.New(
			"Admin",
			opts.AdminEmail,
			role.Admin,
			user.WithTenantID(created.ID()),
			user.WithPermissions(permissions.All),
		)
		admin, err = admin.SetPassword(opts.AdminPassword)
		if err != nil {
			return errors.Wrap(err, "hashing admin password")
		}
		if _, err := userRepo.Create(txCtx, admin); err != nil {
			return errors.Wrap(err, "seeding admin user")
		}

		log.Infof("seeded tenant %s with admin %s", created.Name(), opts.AdminEmail)
		return nil
	})
}
