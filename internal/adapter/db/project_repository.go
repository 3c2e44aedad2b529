package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"crystalos/internal/core/domain"
	"crystalos/internal/core/ports"
)

const selectProjectsQuery = `
SELECT id, user_id, name, description, completed, progress, research, created_at
FROM projects
`

type ProjectRepository struct {
	repository
}

type projectRow struct {
	ID          string             `db:"id"`
	UserID      string             `db:"user_id"`
	Name        string             `db:"name"`
	Description sql.NullString     `db:"description"`
	Completed   bool               `db:"completed"`
	Progress    int                `db:"progress"`
	Research    types.NullJSONText `db:"research"`
	CreatedAt   time.Time          `db:"created_at"`
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)

func NewProjectRepository(db *sqlx.DB, events *ChangeBroker) *ProjectRepository {
	return &ProjectRepository{repository{db: db, events: events}}
}

func (r *ProjectRepository) ListProjects(ctx context.Context, userID string) ([]domain.Project, error) {
	var rows []projectRow
	if err := r.db.SelectContext(ctx, &rows, selectProjectsQuery+"WHERE user_id = ? ORDER BY created_at, id", userID); err != nil {
		return nil, err
	}

	projects := make([]domain.Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, mapProjectRow(row))
	}
	return projects, nil
}

func (r *ProjectRepository) getProject(ctx context.Context, id string) (domain.Project, error) {
	var row projectRow
	if err := r.db.GetContext(ctx, &row, selectProjectsQuery+"WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Project{}, domain.ErrProjectNotFound
		}
		return domain.Project{}, err
	}
	return mapProjectRow(row), nil
}

func (r *ProjectRepository) InsertProject(ctx context.Context, project domain.Project) (domain.Project, error) {
	research, err := researchJSON(project.Research)
	if err != nil {
		return domain.Project{}, err
	}

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO projects (id, user_id, name, description, completed, progress, research, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, project.UserID, project.Name, nullString(project.Description), project.Completed,
		project.Progress, research, createdAt(project.CreatedAt),
	)
	if err != nil {
		return domain.Project{}, err
	}

	created, err := r.getProject(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}
	r.publish(domain.ChangeEvent{Table: domain.TableProjects, Op: domain.ChangeInsert, UserID: created.UserID, RecordID: id, Record: created})
	return created, nil
}

func (r *ProjectRepository) UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) error {
	var s setter
	if patch.Completed != nil {
		s.set("completed", *patch.Completed)
	}
	if patch.Progress != nil {
		s.set("progress", *patch.Progress)
	}
	if s.empty() {
		return nil
	}

	if err := r.update(ctx, domain.TableProjects, id, s); err != nil {
		return err
	}
	updated, err := r.getProject(ctx, id)
	if err != nil {
		return err
	}
	r.publish(domain.ChangeEvent{Table: domain.TableProjects, Op: domain.ChangeUpdate, UserID: updated.UserID, RecordID: id, Record: updated})
	return nil
}

func (r *ProjectRepository) DeleteProject(ctx context.Context, id string) error {
	return r.deleteByID(ctx, domain.TableProjects, id, domain.ErrProjectNotFound)
}

func researchJSON(research *domain.Research) (types.NullJSONText, error) {
	if research == nil {
		return types.NullJSONText{}, nil
	}
	raw, err := json.Marshal(research)
	if err != nil {
		return types.NullJSONText{}, fmt.Errorf("encode research: %w", err)
	}
	return types.NullJSONText{JSONText: types.JSONText(raw), Valid: true}, nil
}

func mapProjectRow(row projectRow) domain.Project {
	project := domain.Project{
		ID:          row.ID,
		UserID:      row.UserID,
		Name:        row.Name,
		Description: row.Description.String,
		Completed:   row.Completed,
		Progress:    row.Progress,
		CreatedAt:   row.CreatedAt.UTC(),
	}

	if row.Research.Valid {
		var research domain.Research
		if err := row.Research.Unmarshal(&research); err == nil {
			project.Research = &research
		}
	}

	return project
}
