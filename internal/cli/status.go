package cli

import "fmt"

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *Context) error {
	user, err := ctx.ResolveUser()
	if err != nil {
		return err
	}

	gs, err := ctx.Engine.GetGameState(user.ID)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%s — %s", gs.User.Name, gs.State.Today)))
	fmt.Println(RenderStreak(gs.User))
	fmt.Println(faintStyle.Render(fmt.Sprintf("level %d · %d XP", gs.Stats.Level(), gs.Stats.XP)))
	fmt.Println()
	fmt.Println(RenderState(gs.State))
	return nil
}
