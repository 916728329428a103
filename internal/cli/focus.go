package cli

import (
	"errors"
	"fmt"

	"github.com/becoming-cli/becoming/internal/models"
	"github.com/becoming-cli/becoming/internal/storage"
)

type FocusStartCmd struct {
	Description string `arg:"" help:"What this focus block is for."`
	Duration    int    `short:"d" help:"Duration in minutes." default:"25"`
}

func (c *FocusStartCmd) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be greater than zero")
	}
	return nil
}

func (c *FocusStartCmd) Run(ctx *Context) error {
	user, err := ctx.ResolveUser()
	if err != nil {
		return err
	}

	block, err := ctx.Engine.StartFocusBlock(user.ID, c.Description, c.Duration)
	if err != nil {
		return err
	}

	fmt.Println(okStyle.Render(fmt.Sprintf("▶ Focus block started: %s (%d min)", block.Description, block.DurationMin)))
	fmt.Println(faintStyle.Render("  Close it with: becoming focus done"))
	return nil
}

type FocusDoneCmd struct{}

func (c *FocusDoneCmd) Run(ctx *Context) error {
	user, err := ctx.ResolveUser()
	if err != nil {
		return err
	}

	block, err := ctx.Engine.CompleteFocusBlock(user.ID)
	if err != nil {
		return err
	}

	fmt.Println(okStyle.Render(fmt.Sprintf("✓ Focus block completed: %s", block.Description)))
	return nil
}

type FocusListCmd struct{}

func (c *FocusListCmd) Run(ctx *Context) error {
	_, intention, err := todaysIntention(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Println("No intention set for today, so no focus blocks.")
			return nil
		}
		return err
	}

	blocks, err := ctx.Store.GetFocusBlocks(intention.ID)
	if err != nil {
		return err
	}
	if len(blocks) == 0 {
		fmt.Println("No focus blocks yet today.")
		return nil
	}

	fmt.Printf("Focus blocks for: %s\n", intention.Description)
	for _, b := range blocks {
		marker := "▶"
		if b.Status == models.FocusBlockCompleted {
			marker = "✓"
		}
		fmt.Printf("  %s %s (%d min)\n", marker, b.Description, b.DurationMin)
	}
	return nil
}
