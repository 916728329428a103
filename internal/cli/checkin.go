package cli

import "fmt"

type CheckInCmd struct{}

func (c *CheckInCmd) Run(ctx *Context) error {
	user, err := ctx.ResolveUser()
	if err != nil {
		return err
	}

	state, err := ctx.Engine.CheckIn(user.ID)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%s — %s", user.Name, state.Today)))
	fmt.Println(RenderStreak(user))
	fmt.Println()
	fmt.Println(RenderState(state))
	return nil
}
