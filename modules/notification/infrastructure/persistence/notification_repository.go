package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/arkiflo/arkiflo/modules/notification/domain/entities/notification"
	"github.com/arkiflo/arkiflo/modules/notification/infrastructure/persistence/models"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/serrors"
)

var (
	ErrNotificationNotFound = errors.Wrap(serrors.ErrNotFound, "notification")
)

const (
	notificationFindQuery = `
		SELECT
			n.id,
			n.tenant_id,
			n.recipient_id,
			n.kind,
			n.message,
			n.read,
			n.created_at
		FROM notifications n`

	notificationUnreadCountQuery = `
		SELECT COUNT(n.id) FROM notifications n
		WHERE n.tenant_id = $1 AND n.recipient_id = $2 AND NOT n.read`

	notificationLatestKindQuery = `
		SELECT MAX(n.created_at) FROM notifications n
		WHERE n.tenant_id = $1 AND n.kind = $2`

	notificationInsertQuery = `
		INSERT INTO notifications (id, tenant_id, recipient_id, kind, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	notificationUpdateQuery = `
		UPDATE notifications SET read = $1 WHERE id = $2 AND tenant_id = $3`

	notificationMarkAllQuery = `
		UPDATE notifications SET read = TRUE WHERE tenant_id = $1 AND recipient_id = $2 AND NOT read`
)

type NotificationRepository struct{}

func NewNotificationRepository() notification.Repository {
	return &NotificationRepository{}
}

func toDomainNotification(m *models.Notification) (*notification.Notification, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing notification id")
	}
	tenantID, err := uuid.Parse(m.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing notification tenant id")
	}
	recipient, err := uuid.Parse(m.Recipient)
	if err != nil {
		return nil, errors.Wrap(err, "parsing notification recipient id")
	}
	return notification.New(
		recipient,
		notification.Kind(m.Kind),
		m.Message,
		notification.WithID(id),
		notification.WithTenantID(tenantID),
		notification.WithRead(m.Read),
		notification.WithCreatedAt(m.CreatedAt),
	), nil
}

func (r *NotificationRepository) queryNotifications(ctx context.Context, query string, args ...any) ([]*notification.Notification, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying notifications")
	}
	defer rows.Close()

	var out []*notification.Notification
	for rows.Next() {
		var m models.Notification
		if err := rows.Scan(
			&m.ID,
			&m.TenantID,
			&m.Recipient,
			&m.Kind,
			&m.Message,
			&m.Read,
			&m.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scanning notification")
		}
		entity, err := toDomainNotification(&m)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

func (r *NotificationRepository) GetPaginated(ctx context.Context, params *notification.FindParams) ([]*notification.Notification, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	where := []string{"n.tenant_id = $1"}
	args := []any{tenantID.String()}
	if params.Recipient != uuid.Nil {
		args = append(args, params.Recipient.String())
		where = append(where, fmt.Sprintf("n.recipient_id = $%d", len(args)))
	}
	if params.UnreadOnly {
		where = append(where, "NOT n.read")
	}
	query := notificationFindQuery + " WHERE " + strings.Join(where, " AND ")
	query += " ORDER BY n.created_at DESC"
	args = append(args, params.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, params.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))
	return r.queryNotifications(ctx, query, args...)
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	notifications, err := r.queryNotifications(ctx, notificationFindQuery+" WHERE n.id = $1 AND n.tenant_id = $2", id.String(), tenantID.String())
	if err != nil {
		return nil, err
	}
	if len(notifications) == 0 {
		return nil, ErrNotificationNotFound
	}
	return notifications[0], nil
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, recipient uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, notificationUnreadCountQuery, tenantID.String(), recipient.String()).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "counting unread notifications")
	}
	return count, nil
}

// LatestOfKind returns the zero time when no notification of the kind has
// ever been filed for the tenant.
func (r *NotificationRepository) LatestOfKind(ctx context.Context, kind notification.Kind) (time.Time, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return time.Time{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return time.Time{}, err
	}
	var latest *time.Time
	if err := tx.QueryRow(ctx, notificationLatestKindQuery, tenantID.String(), string(kind)).Scan(&latest); err != nil {
		return time.Time{}, errors.Wrap(err, "querying latest notification")
	}
	if latest == nil {
		return time.Time{}, nil
	}
	return *latest, nil
}

func (r *NotificationRepository) Create(ctx context.Context, entity *notification.Notification) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		ctx,
		notificationInsertQuery,
		entity.ID().String(),
		entity.TenantID().String(),
		entity.Recipient().String(),
		string(entity.Kind()),
		entity.Message(),
		entity.Read(),
		entity.CreatedAt(),
	); err != nil {
		return errors.Wrap(err, "creating notification")
	}
	return nil
}

func (r *NotificationRepository) Update(ctx context.Context, entity *notification.Notification) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, notificationUpdateQuery, entity.Read(), entity.ID().String(), entity.TenantID().String()); err != nil {
		return errors.Wrap(err, "updating notification")
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipient uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, notificationMarkAllQuery, tenantID.String(), recipient.String()); err != nil {
		return errors.Wrap(err, "marking notifications read")
	}
	return nil
}
