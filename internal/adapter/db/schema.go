package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

type index struct {
	name    string
	columns string
}

type tableDef struct {
	name    string
	columns []string
	indexes []index
}

// {ts} is replaced by the dialect's timestamp type.
var tables = []tableDef{
	{
		name: "users",
		columns: []string{
			"id VARCHAR(36) NOT NULL PRIMARY KEY",
			"email VARCHAR(255) NOT NULL UNIQUE",
			"username VARCHAR(64) NOT NULL DEFAULT ''",
			"password_hash VARCHAR(255) NOT NULL",
			"created_at {ts} NOT NULL",
		},
	},
	{
		name: "sessions",
		columns: []string{
			"token VARCHAR(64) NOT NULL PRIMARY KEY",
			"user_id VARCHAR(36) NOT NULL",
			"expires_at {ts} NOT NULL",
			"created_at {ts} NOT NULL",
		},
		indexes: []index{{name: "idx_sessions_user", columns: "user_id"}},
	},
	{
		name: "profiles",
		columns: []string{
			"id VARCHAR(36) NOT NULL PRIMARY KEY",
			"username VARCHAR(64) NOT NULL DEFAULT ''",
			"theme_color VARCHAR(16) NOT NULL DEFAULT '#AFFC41'",
		},
	},
	{
		name: "tasks",
		columns: []string{
			"id VARCHAR(36) NOT NULL PRIMARY KEY",
			"user_id VARCHAR(36) NOT NULL",
			"title VARCHAR(255) NOT NULL",
			"completed BOOLEAN NOT NULL DEFAULT FALSE",
			"completed_at {ts} NULL",
			"created_at {ts} NOT NULL",
		},
		indexes: []index{{name: "idx_tasks_user", columns: "user_id"}},
	},
	{
		name: "habits",
		columns: []string{
			"id VARCHAR(36) NOT NULL PRIMARY KEY",
			"user_id VARCHAR(36) NOT NULL",
			"name VARCHAR(255) NOT NULL",
			"type VARCHAR(16) NOT NULL DEFAULT 'permanent'",
			"completed BOOLEAN NOT NULL DEFAULT FALSE",
			"streak INT NOT NULL DEFAULT 0",
			"last_completed_at {ts} NULL",
			"note TEXT NULL",
			"created_at {ts} NOT NULL",
		},
		indexes: []index{{name: "idx_habits_user", columns: "user_id"}},
	},
	{
		name: "habit_logs",
		columns: []string{
			"id VARCHAR(36) NOT NULL PRIMARY KEY",
			"user_id VARCHAR(36) NOT NULL",
			"habit_id VARCHAR(36) NOT NULL",
			"date VARCHAR(10) NOT NULL",
			"completed_at {ts} NOT NULL",
			"UNIQUE (habit_id, date)",
		},
		indexes: []index{{name: "idx_habit_logs_user_date", columns: "user_id, date"}},
	},
	{
		name: "projects",
		columns: []string{
			"id VARCHAR(36) NOT NULL PRIMARY KEY",
			"user_id VARCHAR(36) NOT NULL",
			"name VARCHAR(255) NOT NULL",
			"description TEXT NULL",
			"completed BOOLEAN NOT NULL DEFAULT FALSE",
			"progress INT NOT NULL DEFAULT 0",
			"research TEXT NULL",
			"created_at {ts} NOT NULL",
		},
		indexes: []index{{name: "idx_projects_user", columns: "user_id"}},
	},
	{
		name: "timetable",
		columns: []string{
			"id VARCHAR(36) NOT NULL PRIMARY KEY",
			"user_id VARCHAR(36) NOT NULL",
			"activity VARCHAR(255) NOT NULL",
			"category VARCHAR(64) NOT NULL DEFAULT 'Work'",
			"start_time VARCHAR(5) NOT NULL",
			"end_time VARCHAR(5) NOT NULL",
			"recurrence VARCHAR(16) NOT NULL DEFAULT 'weekly'",
			"day VARCHAR(16) NULL",
			"date VARCHAR(10) NULL",
			"completed BOOLEAN NOT NULL DEFAULT FALSE",
			"created_at {ts} NOT NULL",
		},
		indexes: []index{{name: "idx_timetable_user", columns: "user_id"}},
	},
	{
		name: "notifications",
		columns: []string{
			"id VARCHAR(36) NOT NULL PRIMARY KEY",
			"user_id VARCHAR(36) NOT NULL",
			"title VARCHAR(255) NOT NULL",
			"message TEXT NULL",
			"type VARCHAR(16) NOT NULL DEFAULT 'info'",
			"is_read BOOLEAN NOT NULL DEFAULT FALSE",
			"created_at {ts} NOT NULL",
		},
		indexes: []index{{name: "idx_notifications_user_created", columns: "user_id, created_at"}},
	},
}

// Migrate creates the schema for the connection's driver. It is safe to run
// repeatedly.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements(db.DriverName()) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func schemaStatements(driver string) []string {
	ts := "DATETIME"
	if driver == DriverMySQL {
		ts = "DATETIME(6)"
	}

	var stmts []string
	for _, t := range tables {
		cols := make([]string, 0, len(t.columns)+len(t.indexes))
		for _, c := range t.columns {
			cols = append(cols, strings.ReplaceAll(c, "{ts}", ts))
		}

		if driver == DriverMySQL {
			// MySQL has no CREATE INDEX IF NOT EXISTS, so indexes go inline.
			for _, idx := range t.indexes {
				cols = append(cols, fmt.Sprintf("INDEX %s (%s)", idx.name, idx.columns))
			}
			stmts = append(stmts, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
				t.name, strings.Join(cols, ",\n\t")))
			continue
		}

		stmts = append(stmts, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", t.name, strings.Join(cols, ",\n\t")))
		for _, idx := range t.indexes {
			stmts = append(stmts, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", idx.name, t.name, idx.columns))
		}
	}
	return stmts
}
