package main

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/app"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/config"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/eventbus"
)

// env is what every subcommand needs. Events have no listeners here.
type env struct {
	app   *app.App
	repos *app.Repositories
	svc   *app.Services
}

func connect(cmd *cobra.Command) (*env, error) {
	dbURL, _ := cmd.Flags().GetString("database-url")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return nil, errors.New("no database: pass --database-url or set DATABASE_URL")
	}

	cfg := &config.Config{
		OrganizationName: config.OrganizationName,
		AppName:          "rentctl",
		DBUrl:            dbURL,
	}
	a, err := app.NewApp(cfg)
	if err != nil {
		return nil, err
	}
	repos := app.NewRepositories(a.DB)
	return &env{
		app:   a,
		repos: repos,
		svc:   app.NewServices(cfg, repos, nil, eventbus.Nop{}),
	}, nil
}

func (e *env) Close() { e.app.Close() }

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
