package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"crystalos/internal/core/domain"
	"crystalos/internal/core/ports"
)

type ProfileRepository struct {
	repository
}

type profileRow struct {
	ID         string `db:"id"`
	Username   string `db:"username"`
	ThemeColor string `db:"theme_color"`
}

var _ ports.ProfileRepository = (*ProfileRepository)(nil)

func NewProfileRepository(db *sqlx.DB, events *ChangeBroker) *ProfileRepository {
	return &ProfileRepository{repository{db: db, events: events}}
}

func (r *ProfileRepository) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	var row profileRow
	if err := r.db.GetContext(ctx, &row, `SELECT id, username, theme_color FROM profiles WHERE id = ?`, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Profile{}, domain.ErrProfileNotFound
		}
		return domain.Profile{}, err
	}
	return domain.Profile(row), nil
}

// UpdateThemeColor stores color on the user's profile, creating the profile
// if it does not exist yet.
func (r *ProfileRepository) UpdateThemeColor(ctx context.Context, userID, color string) error {
	query := `INSERT INTO profiles (id, theme_color) VALUES (?, ?) ` +
		upsertClause(r.db.DriverName(), []string{"id"}, "theme_color")
	if _, err := r.db.ExecContext(ctx, query, userID, color); err != nil {
		return err
	}

	profile, err := r.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	r.publish(domain.ChangeEvent{Table: domain.TableProfiles, Op: domain.ChangeUpdate, UserID: userID, RecordID: userID, Record: profile})
	return nil
}
