package cmd

import (
	"context"
	"errors"

	"github.com/hance08/banktech/internal/app"
	"github.com/hance08/banktech/internal/constants"
	"github.com/hance08/banktech/internal/session"
	"github.com/hance08/banktech/internal/ui/prompts"
	"github.com/hance08/banktech/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type loginFlags struct {
	Email    string
	Password string
}

type loginRunner struct {
	app   *app.App
	flags *loginFlags
}

func NewLoginCmd(a *app.App) *cobra.Command {
	flags := &loginFlags{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to BankTech",
		Long: `Log in with your email and password. The session is kept for
the configured session.ttl, so later commands run without asking again.

Example: banktech login --email john@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &loginRunner{app: a, flags: flags}
			return runner.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&flags.Email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&flags.Password, "password", "p", "", "Account password (prompted when omitted)")

	return cmd
}

func (r *loginRunner) Run(ctx context.Context) error {
	if user, err := r.app.RequireUser(); err == nil {
		pterm.Info.Printf("Already logged in as %s\n", user.Email)
		return (&dashboardRunner{app: r.app}).Run(ctx, user)
	}

	email, password := r.flags.Email, r.flags.Password
	if email == "" || password == "" {
		var err error
		if email == "" {
			email, password, err = prompts.PromptLogin()
		} else {
			password, err = prompts.PromptPassword("Password:", nil)
		}
		if err != nil {
			return err
		}
	}

	spinner, _ := pterm.DefaultSpinner.Start("Logging in...")
	user, err := r.app.Session.Login(ctx, email, password)
	if err != nil {
		spinner.Fail("Login failed")
		return err
	}
	spinner.Success("Logged in as " + user.Name)

	return (&dashboardRunner{app: r.app}).Run(ctx, user)
}

type registerRunner struct {
	app *app.App
}

func NewRegisterCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create a BankTech user and its first account",
		Long: `Create a new user. The form asks for your details and the type of
your first account, which is opened with a zero balance.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &registerRunner{app: a}
			return runner.Run(cmd.Context())
		},
	}
}

func (r *registerRunner) Run(ctx context.Context) error {
	if user, err := r.app.RequireUser(); err == nil {
		pterm.Info.Printf("Already logged in as %s\n", user.Email)
		return (&dashboardRunner{app: r.app}).Run(ctx, user)
	}

	in, err := prompts.PromptRegister()
	if err != nil {
		return err
	}

	spinner, _ := pterm.DefaultSpinner.Start("Creating your account...")
	user, account, err := r.app.Session.Register(ctx, in)
	if err != nil {
		spinner.Fail("Registration failed")
		return err
	}
	spinner.Success("Welcome, " + user.Name)

	if err := r.app.Service.Account.Select(account.AccountNumber); err != nil {
		r.app.Logger.Warn("select first account", zap.Error(err))
	}

	return views.RenderAccountSuccess(*account)
}

type logoutRunner struct {
	app *app.App
}

func NewLogoutCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &logoutRunner{app: a}
			return runner.Run()
		},
	}
}

func (r *logoutRunner) Run() error {
	user, err := r.app.RequireUser()
	if errors.Is(err, session.ErrNotLoggedIn) {
		pterm.Info.Println("Not logged in")
		return nil
	}
	if err != nil {
		return err
	}

	if err := r.app.Session.Logout(); err != nil {
		return err
	}
	if err := r.app.Service.Account.ClearSelected(); err != nil {
		r.app.Logger.Warn("clear selected account", zap.Error(err))
	}
	if err := r.app.Store.Delete(constants.KeyTransferForm); err != nil {
		r.app.Logger.Warn("clear transfer progress", zap.Error(err))
	}

	pterm.Success.Printf("Goodbye, %s\n", user.Name)
	return nil
}
