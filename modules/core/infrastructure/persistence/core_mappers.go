package persistence

import (
	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/arkiflo/arkiflo/modules/core/domain/aggregates/user"
	"github.com/arkiflo/arkiflo/modules/core/domain/entities/session"
	"github.com/arkiflo/arkiflo/modules/core/domain/entities/tenant"
	"github.com/arkiflo/arkiflo/modules/core/domain/value_objects/role"
	"github.com/arkiflo/arkiflo/modules/core/infrastructure/persistence/models"
	"github.com/arkiflo/arkiflo/pkg/mapping"
)

func toDomainUser(m *models.User) (user.User, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing user id")
	}
	tenantID, err := uuid.Parse(m.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing tenant id")
	}
	return user.New(
		m.Name,
		m.Email,
		role.Parse(m.Role),
		user.WithID(id),
		user.WithTenantID(tenantID),
		user.WithPermissions(m.Permissions),
		user.WithSeniorManagerView(m.SeniorManagerView),
		user.WithPasswordHash(m.Password),
		user.WithCreatedAt(m.CreatedAt),
		user.WithUpdatedAt(m.UpdatedAt),
	), nil
}

func toDomainTenant(m *models.Tenant) (*tenant.Tenant, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing tenant id")
	}
	return tenant.New(
		m.Name,
		tenant.WithID(id),
		tenant.WithDomain(mapping.SQLNullStringToValue(m.Domain)),
		tenant.WithGSTNumber(mapping.SQLNullStringToValue(m.GSTNumber)),
		tenant.WithIsActive(m.IsActive),
		tenant.WithCreatedAt(m.CreatedAt),
		tenant.WithUpdatedAt(m.UpdatedAt),
	), nil
}

func toDomainSession(m *models.Session) (*session.Session, error) {
	userID, err := uuid.Parse(m.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing session user id")
	}
	tenantID, err := uuid.Parse(m.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing session tenant id")
	}
	return &session.Session{
		Token:     m.Token,
		UserID:    userID,
		TenantID:  tenantID,
		IP:        mapping.SQLNullStringToValue(m.IP),
		UserAgent: mapping.SQLNullStringToValue(m.UserAgent),
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}, nil
}
