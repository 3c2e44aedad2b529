package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"crystalos/internal/core/domain"
)

// repository carries what every table adapter needs: the connection and the
// broker that receives an event after each committed write.
type repository struct {
	db     *sqlx.DB
	events *ChangeBroker
}

func (r repository) publish(ev domain.ChangeEvent) {
	if r.events != nil {
		r.events.Publish(ev)
	}
}

// ownerOf returns the user_id of row id in table, or notFound.
func (r repository) ownerOf(ctx context.Context, table domain.Table, id string, notFound error) (string, error) {
	var owner string
	query := fmt.Sprintf("SELECT user_id FROM %s WHERE id = ?", table)
	if err := r.db.GetContext(ctx, &owner, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", notFound
		}
		return "", err
	}
	return owner, nil
}

// deleteByID removes one row and emits the delete event for its owner.
func (r repository) deleteByID(ctx context.Context, table domain.Table, id string, notFound error) error {
	owner, err := r.ownerOf(ctx, table, id, notFound)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", table)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return err
	}
	r.publish(domain.ChangeEvent{Table: table, Op: domain.ChangeDelete, UserID: owner, RecordID: id})
	return nil
}

type setter struct {
	clauses []string
	args    []any
}

func (s *setter) set(column string, value any) {
	s.clauses = append(s.clauses, column+" = ?")
	s.args = append(s.args, value)
}

func (s *setter) empty() bool {
	return len(s.clauses) == 0
}

func (r repository) update(ctx context.Context, table domain.Table, id string, s setter) error {
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(s.clauses, ", "))
	_, err := r.db.ExecContext(ctx, query, append(s.args, id)...)
	return err
}

// upsertClause returns the dialect specific conflict clause that overwrites
// columns when a row with the same conflict key exists.
func upsertClause(driver string, conflict []string, columns ...string) string {
	sets := make([]string, 0, len(columns))
	if driver == DriverMySQL {
		for _, c := range columns {
			sets = append(sets, fmt.Sprintf("%s = VALUES(%s)", c, c))
		}
		return "ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
	}
	for _, c := range columns {
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	return fmt.Sprintf("ON CONFLICT(%s) DO UPDATE SET %s", strings.Join(conflict, ", "), strings.Join(sets, ", "))
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	value := t.Time.UTC()
	return &value
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func nullDay(d domain.Day) sql.NullString {
	if d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func dayOf(value sql.NullString) domain.Day {
	if !value.Valid {
		return domain.Day{}
	}
	d, err := domain.ParseDay(value.String)
	if err != nil {
		return domain.Day{}
	}
	return d
}

func createdAt(t time.Time) time.Time {
	if t.IsZero() {
		return utcNow()
	}
	return t.UTC()
}
