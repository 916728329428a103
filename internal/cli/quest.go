package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/becoming-cli/becoming/internal/clock"
	"github.com/becoming-cli/becoming/internal/models"
)

type QuestShowCmd struct{}

func (c *QuestShowCmd) Run(ctx *Context) error {
	user, err := ctx.ResolveUser()
	if err != nil {
		return err
	}

	quest, ok, err := openQuest(ctx, user)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("No open recovery quest.")
		return nil
	}

	fmt.Printf("Recovery quest for %s:\n\n", quest.Day)
	fmt.Println("  " + quest.Prompt)
	fmt.Println()
	fmt.Println(faintStyle.Render("  Answer with: becoming quest done"))
	return nil
}

type QuestDoneCmd struct {
	Response string `arg:"" optional:"" help:"Your reflection on what went wrong and what you'll change."`
}

func (c *QuestDoneCmd) Run(ctx *Context) error {
	user, err := ctx.ResolveUser()
	if err != nil {
		return err
	}

	quest, ok, err := openQuest(ctx, user)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no open recovery quest to complete")
	}

	response := c.Response
	if response == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewText().
				Title(quest.Prompt).
				Description("One honest paragraph. This is the quest.").
				Value(&response).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("a reflection cannot be empty")
					}
					return nil
				}),
		))
		if err := form.Run(); err != nil {
			return err
		}
	}

	resolution, err := ctx.Engine.CompleteRecoveryQuest(user.ID, quest.ID, response)
	if err != nil {
		return err
	}

	return printResolution(ctx, user.ID, resolution)
}

// openQuest finds the user's pending quest that is still inside its grace
// window (today's or yesterday's).
func openQuest(ctx *Context, user models.User) (models.RecoveryQuest, bool, error) {
	today, err := ctx.Clock.Today(user.Timezone)
	if err != nil {
		return models.RecoveryQuest{}, false, err
	}
	yesterday, err := clock.AddDays(today, -1)
	if err != nil {
		return models.RecoveryQuest{}, false, err
	}

	pending, err := ctx.Store.GetPendingQuests(user.ID)
	if err != nil {
		return models.RecoveryQuest{}, false, err
	}
	for _, q := range pending {
		if q.Day == today || q.Day == yesterday {
			return q, true, nil
		}
	}
	return models.RecoveryQuest{}, false, nil
}
