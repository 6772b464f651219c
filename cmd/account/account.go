package account

import (
	"github.com/hance08/banktech/internal/app"
	"github.com/spf13/cobra"
)

func NewAccountCmd(a *app.App) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "It can create, delete and select accounts and show the list of all accounts.",
		Long:  `It can create, delete and select accounts and show the list of all accounts.`,
	}

	accountCmd.AddCommand(NewListCmd(a))
	accountCmd.AddCommand(NewCreateCmd(a))
	accountCmd.AddCommand(NewDeleteCmd(a))
	accountCmd.AddCommand(NewUseCmd(a))

	return accountCmd
}
