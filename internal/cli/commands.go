// Package cli holds the dashctl maintenance commands.
package cli

import (
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	dbadapter "crystalos/internal/adapter/db"
	"crystalos/internal/config"
)

// env is what every command runs against.
type env struct {
	conf   *config.ToolConfig
	db     *sqlx.DB
	logger *zap.Logger
}

// opener connects to the gateway. Tests swap it for an in-memory database.
type opener func() (*env, error)

func New() *cobra.Command {
	return newRoot(openFromEnv)
}

func newRoot(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dashctl",
		Short:         "Maintenance commands for the dashboard gateway.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addMigrate(cmd, open)
	addSeed(cmd, open)
	addReset(cmd, open)
	return cmd
}

func openFromEnv() (*env, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	conf, err := config.LoadToolConfig()
	if err != nil {
		return nil, err
	}
	db, err := dbadapter.Open(conf.GatewayURL)
	if err != nil {
		return nil, err
	}
	return &env{conf: conf, db: db, logger: logger}, nil
}

func (e *env) close() {
	_ = e.logger.Sync()
	if err := e.db.Close(); err != nil {
		e.logger.Warn("failed to close gateway connection", zap.Error(err))
	}
}

func (e *env) gateway() *dbadapter.Gateway {
	return dbadapter.NewGateway(e.db, dbadapter.NewChangeBroker(e.logger))
}

// UserOptions selects the account a command acts on.
type UserOptions struct {
	UserID string
}

func addUserFlag(cmd *cobra.Command, o *UserOptions) {
	cmd.Flags().StringVar(&o.UserID, "user", "", "Id of the user to act on.")
	_ = cmd.MarkFlagRequired("user")
}
