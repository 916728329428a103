package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/becoming-cli/becoming/internal/cli"
	"github.com/becoming-cli/becoming/internal/cli/backups"
	"github.com/becoming-cli/becoming/internal/cli/system"
	"github.com/becoming-cli/becoming/internal/clock"
	"github.com/becoming-cli/becoming/internal/constants"
	"github.com/becoming-cli/becoming/internal/engine"
	apperrors "github.com/becoming-cli/becoming/internal/errors"
	"github.com/becoming-cli/becoming/internal/keyring"
	"github.com/becoming-cli/becoming/internal/logger"
	"github.com/becoming-cli/becoming/internal/progression"
	"github.com/becoming-cli/becoming/internal/storage"
	"github.com/becoming-cli/becoming/internal/storage/postgres"
	"github.com/becoming-cli/becoming/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database file path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use environment variables, .pgpass, or the OS keyring instead." type:"string" default:"${default_config}"`
	Debug   bool   `help:"Enable debug logging."`
	User    string `help:"Act as this user instead of the configured default." short:"u"`

	Init    system.InitCmd    `cmd:"" help:"Initialize becoming storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Checkin cli.CheckInCmd    `cmd:"" help:"Show today's state and run daily housekeeping."`
	Intent  struct {
		Set  cli.IntentSetCmd  `cmd:"" help:"Set today's intention." default:"1"`
		Show cli.IntentShowCmd `cmd:"" help:"Show today's intention."`
		Done cli.IntentDoneCmd `cmd:"" help:"Complete today's intention."`
		Fail cli.IntentFailCmd `cmd:"" help:"Declare today's intention failed."`
	} `cmd:"" help:"Manage today's intention."`
	Quest struct {
		Show cli.QuestShowCmd `cmd:"" help:"Show the open recovery quest." default:"1"`
		Done cli.QuestDoneCmd `cmd:"" help:"Answer the open recovery quest."`
	} `cmd:"" help:"Manage recovery quests."`
	Focus struct {
		Start cli.FocusStartCmd `cmd:"" help:"Start a focus block on today's intention."`
		Done  cli.FocusDoneCmd  `cmd:"" help:"Complete the active focus block."`
		List  cli.FocusListCmd  `cmd:"" help:"List today's focus blocks."`
	} `cmd:"" help:"Manage focus blocks."`
	Status  cli.StatusCmd  `cmd:"" help:"Show streak, level and today's state."`
	Journal cli.JournalCmd `cmd:"" help:"Show the resolution journal."`
	Stats   cli.StatsCmd   `cmd:"" help:"Show character stats."`
	Users   struct {
		Add  cli.UserAddCmd  `cmd:"" help:"Add a new user."`
		List cli.UserListCmd `cmd:"" help:"List users."`
		Use  cli.UserUseCmd  `cmd:"" help:"Select the default user."`
	} `cmd:"" name:"user" help:"Manage users."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
}

// commands that manage the store themselves and must not go through the
// schema-validating Load
var skipLoad = map[string]bool{
	"init":    true,
	"migrate": true,
	"doctor":  true,
	"keyring": true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Streak and daily-resolution companion: one intention a day, recover or break the chain"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	connStr := resolveConnString()

	var store storage.Provider
	if isPostgresConn(connStr) {
		if _, err := postgres.ValidateConnString(connStr); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				fmt.Fprintf(os.Stderr, "❌ Error: PostgreSQL connection strings with embedded credentials are NOT allowed.\n")
				fmt.Fprintf(os.Stderr, "       Use one of these secure alternatives:\n")
				fmt.Fprintf(os.Stderr, "       1. OS keyring:    becoming keyring set \"postgresql://user@host:5432/becoming\"\n")
				fmt.Fprintf(os.Stderr, "       2. Environment:   export %s=\"postgresql://user@host:5432/becoming\"\n", constants.EnvDBConnection)
				fmt.Fprintf(os.Stderr, "       3. .pgpass file:  Use a connection string without a password.\n")
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		store = postgres.New(connStr)
	} else {
		store = sqlite.New(expandHome(connStr))
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: configDir(store),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	clk := clock.System{}
	appCtx := &cli.Context{
		Store:    store,
		Engine:   engine.New(store, clk, progression.DefaultPolicy{}, progression.StaticAdvisor{}),
		Clock:    clk,
		Advisor:  progression.StaticAdvisor{},
		UserName: CLI.User,
	}

	if !skipLoad[rootCommand(ctx)] {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		apperrors.Fatal(err)
	}
}

// resolveConnString picks the database location: the --config flag when given,
// then the environment, then the OS keyring, then the default file path.
func resolveConnString() string {
	if CLI.Config != constants.DefaultConfigPath {
		return CLI.Config
	}
	if env := os.Getenv(constants.EnvDBConnection); env != "" {
		return env
	}
	if stored, err := keyring.GetConnectionString(); err == nil {
		return stored
	}
	return CLI.Config
}

func isPostgresConn(connStr string) bool {
	return strings.HasPrefix(connStr, "postgres://") ||
		strings.HasPrefix(connStr, "postgresql://") ||
		strings.Contains(connStr, "host=")
}

// expandHome expands a leading ~ in the database file path.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// configDir is where logs live: next to the sqlite file, or the default
// config directory for postgres deployments.
func configDir(store storage.Provider) string {
	path := store.GetConfigPath()
	if isPostgresConn(path) {
		return filepath.Dir(expandHome(constants.DefaultConfigPath))
	}
	return filepath.Dir(path)
}

// rootCommand returns the first word of the selected command path.
func rootCommand(ctx *kong.Context) string {
	parts := strings.Fields(ctx.Command())
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}
