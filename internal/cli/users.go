package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/becoming-cli/becoming/internal/clock"
	"github.com/becoming-cli/becoming/internal/models"
	"github.com/becoming-cli/becoming/internal/storage"
)

type UserAddCmd struct {
	Name     string `arg:"" help:"Profile name."`
	Timezone string `short:"z" help:"IANA timezone for this user's days." default:"Local"`
}

func (c *UserAddCmd) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if _, err := clock.LoadLocation(c.Timezone); err != nil {
		return err
	}
	return nil
}

func (c *UserAddCmd) Run(ctx *Context) error {
	user := models.User{
		ID:        uuid.NewString(),
		Name:      c.Name,
		Timezone:  c.Timezone,
		CreatedAt: time.Now().UTC(),
	}
	if err := ctx.Store.AddUser(user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return fmt.Errorf("a user named %q already exists", c.Name)
		}
		return err
	}

	fmt.Printf("✓ User %q added.\n", user.Name)

	// The first user becomes the default automatically.
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if settings.CurrentUserID == "" {
		settings.CurrentUserID = user.ID
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return err
		}
		fmt.Printf("✓ %q is now the active user.\n", user.Name)
	}
	return nil
}

type UserListCmd struct{}

func (c *UserListCmd) Run(ctx *Context) error {
	users, err := ctx.Store.GetAllUsers()
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Println("No users yet. Add one with 'becoming user add <name>'.")
		return nil
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	for _, u := range users {
		marker := " "
		if u.ID == settings.CurrentUserID {
			marker = "*"
		}
		fmt.Printf("%s %-20s %-16s streak %d\n", marker, u.Name, u.Timezone, u.CurrentStreak)
	}
	return nil
}

type UserUseCmd struct {
	Name string `arg:"" help:"Profile to make active."`
}

func (c *UserUseCmd) Run(ctx *Context) error {
	user, err := ctx.Store.GetUserByName(c.Name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("unknown user %q", c.Name)
		}
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	settings.CurrentUserID = user.ID
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return err
	}

	fmt.Printf("✓ %q is now the active user.\n", user.Name)
	return nil
}
