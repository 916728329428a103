package cli

import (
	"fmt"
	"strings"

	"github.com/becoming-cli/becoming/internal/backup"
	"github.com/becoming-cli/becoming/internal/clock"
	"github.com/becoming-cli/becoming/internal/engine"
	"github.com/becoming-cli/becoming/internal/logger"
	"github.com/becoming-cli/becoming/internal/models"
	"github.com/becoming-cli/becoming/internal/progression"
	"github.com/becoming-cli/becoming/internal/storage"
)

type Context struct {
	Store   storage.Provider
	Engine  *engine.Engine
	Clock   clock.Clock
	Advisor progression.Advisor
	// UserName is the --user flag; empty means the configured default user.
	UserName string
}

// ResolveUser returns the acting user: the --user flag when given, otherwise
// the configured default user.
func (c *Context) ResolveUser() (models.User, error) {
	if c.UserName != "" {
		user, err := c.Store.GetUserByName(c.UserName)
		if err != nil {
			return models.User{}, fmt.Errorf("unknown user %q: %w", c.UserName, err)
		}
		return user, nil
	}

	settings, err := c.Store.GetSettings()
	if err != nil {
		return models.User{}, err
	}
	if settings.CurrentUserID == "" {
		return models.User{}, fmt.Errorf("no user selected: run 'becoming user add <name>' then 'becoming user use <name>'")
	}
	user, err := c.Store.GetUser(settings.CurrentUserID)
	if err != nil {
		return models.User{}, fmt.Errorf("configured user no longer exists: %w", err)
	}
	return user, nil
}

// IsPostgres reports whether the store is backed by a Postgres DSN rather
// than a local database file.
func (c *Context) IsPostgres() bool {
	path := c.Store.GetConfigPath()
	return strings.HasPrefix(path, "postgres://") ||
		strings.HasPrefix(path, "postgresql://") ||
		strings.Contains(path, "host=")
}

// PerformAutomaticBackup creates an automatic backup and silently handles
// errors. Postgres deployments are skipped; they bring their own dump
// tooling.
func (c *Context) PerformAutomaticBackup() {
	if c.IsPostgres() {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
