package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/becoming-cli/becoming/internal/engine"
	"github.com/becoming-cli/becoming/internal/models"
	"github.com/becoming-cli/becoming/internal/storage"
)

type IntentSetCmd struct {
	Description string `arg:"" optional:"" help:"The one needle-moving goal for today."`
}

func (c *IntentSetCmd) Run(ctx *Context) error {
	user, err := ctx.ResolveUser()
	if err != nil {
		return err
	}

	description := c.Description
	if description == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("What is your intention for today?").
				Description("One goal that moves the needle.").
				Value(&description).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("an intention cannot be empty")
					}
					return nil
				}),
		))
		if err := form.Run(); err != nil {
			return err
		}
	}

	intention, err := ctx.Engine.SetIntention(user.ID, description)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrBlockedByRecovery):
			state, stateErr := ctx.Engine.CheckIn(user.ID)
			if stateErr == nil {
				fmt.Println(RenderState(state))
				return nil
			}
			return err
		case errors.Is(err, engine.ErrDuplicateIntention):
			return fmt.Errorf("today's intention is already set; finish it with 'becoming intent done'")
		}
		return err
	}

	fmt.Println(okStyle.Render(fmt.Sprintf("✓ Intention set for %s: %s", intention.Day, intention.Description)))
	fmt.Println(faintStyle.Render("  " + ctx.Advisor.IntentionSet(intention.Description)))
	return nil
}

type IntentShowCmd struct{}

func (c *IntentShowCmd) Run(ctx *Context) error {
	_, intention, err := todaysIntention(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Println("No intention set for today.")
			return nil
		}
		return err
	}

	fmt.Printf("%s [%s]\n", intention.Description, intention.Status)

	blocks, err := ctx.Store.GetFocusBlocks(intention.ID)
	if err != nil {
		return err
	}
	for _, b := range blocks {
		marker := "·"
		if b.Status == models.FocusBlockCompleted {
			marker = "✓"
		}
		fmt.Printf("  %s %s (%d min)\n", marker, b.Description, b.DurationMin)
	}
	return nil
}

type IntentDoneCmd struct{}

func (c *IntentDoneCmd) Run(ctx *Context) error {
	user, intention, err := todaysIntention(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no intention set for today: run 'becoming intent set' first")
		}
		return err
	}

	resolution, err := ctx.Engine.CompleteIntention(user.ID, intention.ID)
	if err != nil {
		return err
	}

	return printResolution(ctx, user.ID, resolution)
}

type IntentFailCmd struct{}

func (c *IntentFailCmd) Run(ctx *Context) error {
	user, intention, err := todaysIntention(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no intention set for today")
		}
		return err
	}

	quest, err := ctx.Engine.FailIntention(user.ID, intention.ID)
	if err != nil {
		return err
	}

	fmt.Println("Failing forward. Your recovery quest:")
	fmt.Println()
	fmt.Println("  " + quest.Prompt)
	fmt.Println()
	fmt.Println(faintStyle.Render("  Answer today with 'becoming quest done' to keep the day alive."))
	return nil
}

func todaysIntention(ctx *Context) (models.User, models.DailyIntention, error) {
	user, err := ctx.ResolveUser()
	if err != nil {
		return models.User{}, models.DailyIntention{}, err
	}
	today, err := ctx.Clock.Today(user.Timezone)
	if err != nil {
		return models.User{}, models.DailyIntention{}, err
	}
	intention, err := ctx.Store.GetIntention(user.ID, today)
	if err != nil {
		return user, models.DailyIntention{}, err
	}
	return user, intention, nil
}

// printResolution reports a freshly resolved day with the updated streak.
func printResolution(ctx *Context, userID string, resolution models.Resolution) error {
	user, err := ctx.Store.GetUser(userID)
	if err != nil {
		return err
	}

	fmt.Println(okStyle.Render(fmt.Sprintf("✓ %s resolved — %s (+%d XP)", resolution.Day, PathLabel(resolution.Path), resolution.XPAwarded)))
	fmt.Println(RenderStreak(user))
	fmt.Println(faintStyle.Render("  " + ctx.Advisor.Resolved(resolution.Path)))
	return nil
}
