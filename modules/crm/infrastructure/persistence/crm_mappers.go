package persistence

import (
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arkiflo/arkiflo/modules/crm/domain/aggregates/lead"
	"github.com/arkiflo/arkiflo/modules/crm/infrastructure/persistence/models"
	"github.com/arkiflo/arkiflo/pkg/mapping"
)

func toDomainLead(m *models.Lead) (*lead.Lead, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing lead id")
	}
	tenantID, err := uuid.Parse(m.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing lead tenant id")
	}
	estimate, err := decimal.NewFromString(m.Estimate)
	if err != nil {
		return nil, errors.Wrap(err, "parsing lead estimate")
	}
	return lead.New(
		m.Name,
		lead.WithID(id),
		lead.WithTenantID(tenantID),
		lead.WithContact(m.Contact),
		lead.WithSource(m.Source),
		lead.WithStage(lead.Stage(m.Stage)),
		lead.WithEstimate(estimate),
		lead.WithAssignee(mapping.SQLNullStringToUUID(m.Assignee)),
		lead.WithCreatedAt(m.CreatedAt),
		lead.WithUpdatedAt(m.UpdatedAt),
	), nil
}
