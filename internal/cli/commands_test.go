package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	dbadapter "crystalos/internal/adapter/db"
	"crystalos/internal/config"
	"crystalos/internal/core/domain"
)

func fileOpener(t *testing.T) opener {
	t.Helper()
	url := "sqlite://" + filepath.Join(t.TempDir(), "dash.db")
	return func() (*env, error) {
		db, err := dbadapter.Open(url)
		if err != nil {
			return nil, err
		}
		return &env{
			conf:   &config.ToolConfig{GatewayURL: url, Timezone: time.UTC},
			db:     db,
			logger: zap.NewNop(),
		}, nil
	}
}

func run(t *testing.T, open opener, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRoot(open)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// signUp creates an account directly through the auth service.
func signUp(t *testing.T, open opener) domain.User {
	t.Helper()
	e, err := open()
	require.NoError(t, err)
	defer e.close()

	session, err := dbadapter.NewAuthService(e.db, time.Hour, zap.NewNop()).
		SignUp(context.Background(), "ops@crystal.os", "hunter22", "ops")
	require.NoError(t, err)
	return session.User
}

func TestMigrate(t *testing.T) {
	open := fileOpener(t)

	out, err := run(t, open, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema applied (sqlite)")

	_, err = run(t, open, "migrate")
	assert.NoError(t, err)
}

func TestSeed(t *testing.T) {
	open := fileOpener(t)
	_, err := run(t, open, "migrate")
	require.NoError(t, err)
	user := signUp(t, open)

	out, err := run(t, open, "seed", "--user", user.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "across 1 habits")

	e, err := open()
	require.NoError(t, err)
	defer e.close()
	habits, err := e.gateway().ListHabits(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "Deep Work Session", habits[0].Name)
}

func TestSeed_RequiresKnownUser(t *testing.T) {
	open := fileOpener(t)
	_, err := run(t, open, "migrate")
	require.NoError(t, err)

	_, err = run(t, open, "seed", "--user", "nobody")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	_, err = run(t, open, "seed")
	assert.ErrorContains(t, err, `required flag(s) "user" not set`)
}

func TestReset(t *testing.T) {
	open := fileOpener(t)
	_, err := run(t, open, "migrate")
	require.NoError(t, err)
	user := signUp(t, open)

	e, err := open()
	require.NoError(t, err)
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	_, err = e.gateway().InsertHabit(context.Background(), domain.Habit{
		UserID:          user.ID,
		Name:            "Stretch",
		Type:            domain.HabitTypePermanent,
		Completed:       true,
		LastCompletedAt: &yesterday,
	})
	require.NoError(t, err)
	e.close()

	out, err := run(t, open, "reset", "--user", user.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "reset 1 habits")

	out, err = run(t, open, "reset", "--user", user.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "reset 0 habits")
}
