package cli

import (
	"errors"
	"fmt"

	"github.com/becoming-cli/becoming/internal/models"
	"github.com/becoming-cli/becoming/internal/storage"
)

type JournalCmd struct {
	Limit int `short:"n" help:"Number of recent days to show." default:"14"`
}

func (c *JournalCmd) Run(ctx *Context) error {
	user, err := ctx.ResolveUser()
	if err != nil {
		return err
	}

	resolutions, err := ctx.Store.GetResolutions(user.ID)
	if err != nil {
		return err
	}
	if len(resolutions) == 0 {
		fmt.Println("No resolved days yet. The journal starts with your first intention.")
		return nil
	}

	start := 0
	if c.Limit > 0 && len(resolutions) > c.Limit {
		start = len(resolutions) - c.Limit
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Journal — %s", user.Name)))
	for i := len(resolutions) - 1; i >= start; i-- {
		r := resolutions[i]
		fmt.Printf("%s  %-16s  +%d XP\n", r.Day, PathLabel(r.Path), r.XPAwarded)

		intention, err := ctx.Store.GetIntention(user.ID, r.Day)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return err
		}
		fmt.Println(faintStyle.Render("    " + intention.Description))

		if r.Path != models.PathPerfect {
			quest, err := ctx.Store.GetQuestByIntention(intention.ID)
			if err == nil && quest.Response != "" {
				fmt.Println(faintStyle.Render("    ↳ " + quest.Response))
			} else if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return err
			}
		}
	}
	return nil
}
