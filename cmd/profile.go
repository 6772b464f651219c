package cmd

import (
	"context"

	"github.com/hance08/banktech/internal/app"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/ui/prompts"
	"github.com/hance08/banktech/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func NewProfileCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.RequireUser()
			if err != nil {
				return err
			}
			return views.RenderProfile(*user)
		},
	}

	cmd.AddCommand(newProfileEditCmd(a))

	return cmd
}

type profileEditRunner struct {
	app *app.App
}

func newProfileEditCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit name, phone, address and profile image",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.RequireUser()
			if err != nil {
				return err
			}

			runner := &profileEditRunner{app: a}
			return runner.Run(cmd.Context(), user)
		},
	}
}

func (r *profileEditRunner) Run(ctx context.Context, user *model.User) error {
	in, err := prompts.PromptProfile(*user)
	if err != nil {
		return err
	}

	updated, err := r.app.Session.UpdateProfile(ctx, in)
	if err != nil {
		return err
	}

	pterm.Success.Println("Profile updated")
	return views.RenderProfile(*updated)
}
