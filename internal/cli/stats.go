package cli

import "fmt"

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *Context) error {
	user, err := ctx.ResolveUser()
	if err != nil {
		return err
	}

	stats, err := ctx.Store.GetStats(user.ID)
	if err != nil {
		return err
	}

	level := stats.Level()
	nextLevelXP := 100 * level * level

	fmt.Println(headerStyle.Render(fmt.Sprintf("%s — level %d", user.Name, level)))
	fmt.Printf("  XP          %d", stats.XP)
	fmt.Println(faintStyle.Render(fmt.Sprintf("  (next level at %d)", nextLevelXP)))
	fmt.Printf("  Clarity     %d\n", stats.Clarity)
	fmt.Printf("  Discipline  %d\n", stats.Discipline)
	fmt.Printf("  Resilience  %d\n", stats.Resilience)
	fmt.Println()
	fmt.Println(RenderStreak(user))
	return nil
}
