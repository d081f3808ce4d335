package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arkiflo/arkiflo/modules/project/domain/aggregates/project"
	"github.com/arkiflo/arkiflo/modules/project/infrastructure/persistence/models"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/mapping"
	"github.com/arkiflo/arkiflo/pkg/serrors"
)

var (
	ErrProjectNotFound = errors.Wrap(serrors.ErrNotFound, "project")
)

const (
	projectFindQuery = `
		SELECT
			p.id,
			p.tenant_id,
			p.name,
			p.client,
			p.designer_id,
			p.stage,
			p.value,
			p.start_date,
			p.due_date,
			p.created_at,
			p.updated_at
		FROM projects p`

	projectCountQuery = `SELECT COUNT(p.id) FROM projects p WHERE p.tenant_id = $1`

	projectCalendarQuery = `
		SELECT p.id, p.name, p.stage, p.start_date, p.due_date
		FROM projects p
		WHERE p.tenant_id = $1 AND ((p.start_date BETWEEN $2 AND $3) OR (p.due_date BETWEEN $2 AND $3))`

	projectInsertQuery = `
		INSERT INTO projects (id, tenant_id, name, client, designer_id, stage, value, start_date, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	projectUpdateQuery = `
		UPDATE projects
		SET name = $1, client = $2, designer_id = $3, stage = $4, value = $5, start_date = $6, due_date = $7, updated_at = $8
		WHERE id = $9 AND tenant_id = $10`

	projectDeleteQuery = `DELETE FROM projects WHERE id = $1 AND tenant_id = $2`
)

type ProjectRepository struct{}

func NewProjectRepository() project.Repository {
	return &ProjectRepository{}
}

func toDomainProject(m *models.Project) (*project.Project, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing project id")
	}
	tenantID, err := uuid.Parse(m.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing project tenant id")
	}
	value, err := decimal.NewFromString(m.Value)
	if err != nil {
		return nil, errors.Wrap(err, "parsing project value")
	}
	opts := []project.Option{
		project.WithID(id),
		project.WithTenantID(tenantID),
		project.WithClient(m.Client),
		project.WithDesignerID(mapping.SQLNullStringToUUID(m.DesignerID)),
		project.WithStage(project.Stage(m.Stage)),
		project.WithValue(value),
		project.WithCreatedAt(m.CreatedAt),
		project.WithUpdatedAt(m.UpdatedAt),
	}
	if m.StartDate.Valid {
		opts = append(opts, project.WithStartDate(m.StartDate.Time))
	}
	if m.DueDate.Valid {
		opts = append(opts, project.WithDueDate(m.DueDate.Time))
	}
	return project.New(m.Name, opts...), nil
}

func (r *ProjectRepository) queryProjects(ctx context.Context, query string, args ...any) ([]*project.Project, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying projects")
	}
	defer rows.Close()

	var out []*project.Project
	for rows.Next() {
		var m models.Project
		if err := rows.Scan(
			&m.ID,
			&m.TenantID,
			&m.Name,
			&m.Client,
			&m.DesignerID,
			&m.Stage,
			&m.Value,
			&m.StartDate,
			&m.DueDate,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scanning project")
		}
		entity, err := toDomainProject(&m)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

func (r *ProjectRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, projectCountQuery, tenantID.String()).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "counting projects")
	}
	return count, nil
}

func (r *ProjectRepository) GetPaginated(ctx context.Context, params *project.FindParams) ([]*project.Project, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	where := []string{"p.tenant_id = $1"}
	args := []any{tenantID.String()}
	if params.Stage != "" {
		args = append(args, string(params.Stage))
		where = append(where, fmt.Sprintf("p.stage = $%d", len(args)))
	}
	if params.Designer != uuid.Nil {
		args = append(args, params.Designer.String())
		where = append(where, fmt.Sprintf("p.designer_id = $%d", len(args)))
	}
	if params.Query != "" {
		args = append(args, "%"+params.Query+"%")
		where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR p.client ILIKE $%d)", len(args), len(args)))
	}
	query := projectFindQuery + " WHERE " + strings.Join(where, " AND ")
	query += " ORDER BY p.created_at DESC"
	args = append(args, params.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, params.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))
	return r.queryProjects(ctx, query, args...)
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := r.queryProjects(ctx, projectFindQuery+" WHERE p.id = $1 AND p.tenant_id = $2", id.String(), tenantID.String())
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, ErrProjectNotFound
	}
	return projects[0], nil
}

// Calendar returns dated start/due entries falling inside [from, to].
func (r *ProjectRepository) Calendar(ctx context.Context, from, to time.Time) ([]project.CalendarEntry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, projectCalendarQuery, tenantID.String(), from, to)
	if err != nil {
		return nil, errors.Wrap(err, "querying project calendar")
	}
	defer rows.Close()

	var out []project.CalendarEntry
	for rows.Next() {
		var (
			rawID     string
			name      string
			stage     string
			startDate sql.NullTime
			dueDate   sql.NullTime
		)
		if err := rows.Scan(&rawID, &name, &stage, &startDate, &dueDate); err != nil {
			return nil, errors.Wrap(err, "scanning project calendar entry")
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, errors.Wrap(err, "parsing project id")
		}
		if startDate.Valid && !startDate.Time.Before(from) && !startDate.Time.After(to) {
			out = append(out, project.CalendarEntry{
				ProjectID: id,
				Name:      name,
				Stage:     project.Stage(stage),
				Date:      startDate.Time,
				Kind:      project.CalendarKindStart,
			})
		}
		if dueDate.Valid && !dueDate.Time.Before(from) && !dueDate.Time.After(to) {
			out = append(out, project.CalendarEntry{
				ProjectID: id,
				Name:      name,
				Stage:     project.Stage(stage),
				Date:      dueDate.Time,
				Kind:      project.CalendarKindDue,
			})
		}
	}
	return out, rows.Err()
}

func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		ctx,
		projectInsertQuery,
		p.ID().String(),
		p.TenantID().String(),
		p.Name(),
		p.Client(),
		mapping.UUIDToSQLNullString(p.DesignerID()),
		string(p.Stage()),
		p.Value().String(),
		mapping.TimeToSQLNullTime(p.StartDate()),
		mapping.TimeToSQLNullTime(p.DueDate()),
		p.CreatedAt(),
		p.UpdatedAt(),
	); err != nil {
		return errors.Wrap(err, "creating project")
	}
	return nil
}

func (r *ProjectRepository) Update(ctx context.Context, p *project.Project) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		ctx,
		projectUpdateQuery,
		p.Name(),
		p.Client(),
		mapping.UUIDToSQLNullString(p.DesignerID()),
		string(p.Stage()),
		p.Value().String(),
		mapping.TimeToSQLNullTime(p.StartDate()),
		mapping.TimeToSQLNullTime(p.DueDate()),
		p.UpdatedAt(),
		p.ID().String(),
		p.TenantID().String(),
	); err != nil {
		return errors.Wrap(err, "updating project")
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, projectDeleteQuery, id.String(), tenantID.String()); err != nil {
		return errors.Wrap(err, "deleting project")
	}
	return nil
}
