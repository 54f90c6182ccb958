package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/config"
	"github.com/julianstephens/daybook/internal/constants"
	apperrors "github.com/julianstephens/daybook/internal/errors"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/preferences"
)

var CLI struct {
	Version   kong.VersionFlag
	ConfigDir string `help:"Directory holding config.yaml, preferences and logs." type:"path" default:"~/.config/daybook"`
	APIURL    string `name:"api-url" help:"Diary service base URL (overrides api.base_url)."`
	Debug     bool   `help:"Log debug output to stderr."`

	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	List     cli.ListCmd     `cmd:"" help:"List entries, newest first."`
	Show     cli.ShowCmd     `cmd:"" help:"Show one entry."`
	Add      cli.AddCmd      `cmd:"" help:"Write a new entry."`
	Edit     cli.EditCmd     `cmd:"" help:"Change an existing entry."`
	Delete   cli.DeleteCmd   `cmd:"" help:"Delete an entry."`
	Search   cli.SearchCmd   `cmd:"" help:"Search entries by title, content or date range."`
	Stats    cli.StatsCmd    `cmd:"" help:"Show journal statistics."`
	Theme    cli.ThemeCmd    `cmd:"" help:"Show or change the colour theme."`
	Identity cli.IdentityCmd `cmd:"" help:"Show or reset the device identity."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("A terminal journal backed by a remote diary service"),
		kong.UsageOnError(),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.ConfigDir)
	if err != nil {
		apperrors.Fatal(err)
	}
	if err := cfg.Apply(config.Overrides{APIURL: CLI.APIURL, Debug: CLI.Debug}); err != nil {
		apperrors.Fatal(err)
	}

	if err := logger.Init(logger.Config{
		Debug:      cfg.Log.Debug,
		Dir:        cfg.LogDir(),
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		apperrors.Fatal(err)
	}
	logger.Debug("Configuration loaded", "dir", cfg.Dir, "api", cfg.API.BaseURL)

	prefs := preferences.NewStore(cfg.DatabasePath())
	if err := prefs.Open(); err != nil {
		apperrors.Fatal(err)
	}

	appCtx, err := cli.NewContext(cfg, prefs, os.Stdout, os.Stdin)
	if err != nil {
		prefs.Close()
		apperrors.Fatal(err)
	}

	err = ctx.Run(appCtx)
	prefs.Close()
	if err != nil {
		logger.Error("Command failed", "command", ctx.Command(), "error", err)
		apperrors.Fatalf("%s", apperrors.Notice(err))
	}
}
