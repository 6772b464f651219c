package cmd

import (
	"os"
	"path/filepath"

	"github.com/hance08/banktech/internal/app"
	"github.com/hance08/banktech/internal/ui/views"
	"github.com/spf13/cobra"
)

type infoRunner struct {
	app *app.App
}

func NewInfoCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Display application information",
		Long:  `Display current configuration, database and log paths, backend and session details.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &infoRunner{
				app: a,
			}

			return runner.Run()
		},
	}
}

func (r *infoRunner) Run() error {
	cfg := r.app.Config

	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = "(None, using defaults)"
	}

	appDir := getAppDataDirOrUnknown()
	dbPath := app.DBPath(cfg, appDir)

	dbExists := false
	if _, err := os.Stat(dbPath); err == nil {
		dbExists = true
	}

	logPath := cfg.Log.Path
	switch logPath {
	case "":
		logPath = filepath.Join(appDir, "banktech.log")
	case "off":
		logPath = "(disabled)"
	}

	loggedInAs := "(not logged in)"
	if user, err := r.app.RequireUser(); err == nil {
		loggedInAs = user.Email
	}

	items := views.SystemInfoItem{
		ConfigPath:      configPath,
		DBPath:          dbPath,
		DBExists:        dbExists,
		LogPath:         logPath,
		APIBaseURL:      cfg.API.BaseURL,
		DefaultCurrency: cfg.Defaults.Currency,
		AppDataDir:      appDir,
		LoggedInAs:      loggedInAs,
	}

	if err := views.RenderSystemInfo(items); err != nil {
		return err
	}
	return nil
}

func getAppDataDirOrUnknown() string {
	dir, err := app.DataDir()
	if err != nil {
		return "Unknown"
	}
	return dir
}
