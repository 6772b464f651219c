package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/hance08/banktech/cmd/account"
	"github.com/hance08/banktech/cmd/transaction"
	"github.com/hance08/banktech/internal/app"
	"github.com/hance08/banktech/internal/config"
	"github.com/hance08/banktech/internal/errhandler"
	"github.com/hance08/banktech/internal/validation"
	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	cfg     *config.Config
)

func Execute(migrations fs.FS) {
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " ERROR ",
		Style: pterm.NewStyle(pterm.BgLightRed, pterm.FgBlack),
	}

	parseConfigFlag(os.Args[1:])

	if err := initConfig(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	application, cleanup, err := app.NewApp(cfg, migrations)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	defer cleanup()

	rootCmd := &cobra.Command{
		Use:   "banktech",
		Short: "banktech is a terminal client for BankTech accounts",
		Long: `banktech is a terminal client for BankTech accounts.

Log in, check balances, send transfers, sort transactions into categories
and look at where the money goes.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "set the config file path")

	rootCmd.AddCommand(NewLoginCmd(application))
	rootCmd.AddCommand(NewLogoutCmd(application))
	rootCmd.AddCommand(NewRegisterCmd(application))
	rootCmd.AddCommand(NewDashboardCmd(application))
	rootCmd.AddCommand(NewProfileCmd(application))
	rootCmd.AddCommand(NewTransferCmd(application))
	rootCmd.AddCommand(NewCategorizeCmd(application))
	rootCmd.AddCommand(NewInsightCmd(application))
	rootCmd.AddCommand(NewInfoCmd(application))
	rootCmd.AddCommand(account.NewAccountCmd(application))
	rootCmd.AddCommand(transaction.NewTransactionCmd(application))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		application.Logger.Error("command failed", zap.Error(err))
		cleanup()

		var fe validation.FieldErrors
		if errhandler.IsAbort(err) || errors.As(err, &fe) {
			errhandler.HandleError(err)
		}

		pterm.Error.Println(capitalize(err.Error()))
		os.Exit(1)
	}
}

// parseConfigFlag reads --config ahead of cobra, since the app has to be
// built before the commands are.
func parseConfigFlag(args []string) {
	flags := pflag.NewFlagSet("banktech", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.Usage = func() {}
	flags.StringVarP(&cfgFile, "config", "c", "", "")
	_ = flags.Parse(args)
}

func initConfig() error {
	// .env in the working directory, if any, feeds the BANKTECH_ variables
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		appDir, err := app.DataDir()
		if err != nil {
			return fmt.Errorf("error getting app dir: %w", err)
		}

		viper.AddConfigPath(appDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if err := createDefaultConfig(appDir); err != nil {
			return fmt.Errorf("failed to ensure config file: %w", err)
		}
	}

	viper.SetEnvPrefix("BANKTECH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // allow using environment variables to override

	if err := viper.ReadInConfig(); err != nil {

		if cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return fmt.Errorf("config file error: %w", err)
		}
	}

	cfg = config.NewDefault()
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode into struct, %v", err)
	}

	cfg.ConfigPath = viper.ConfigFileUsed()

	return nil
}

func setDefaults() {
	d := config.NewDefault()

	viper.SetDefault("api.base_url", d.API.BaseURL)
	viper.SetDefault("api.users_url", d.API.UsersURL)
	viper.SetDefault("api.accounts_url", d.API.AccountsURL)
	viper.SetDefault("api.categories_url", d.API.CategoriesURL)
	viper.SetDefault("api.transactions_url", d.API.TransactionsURL)
	viper.SetDefault("api.timeout", d.API.Timeout)
	viper.SetDefault("api.retries", d.API.Retries)
	viper.SetDefault("database.path", d.Database.Path)
	viper.SetDefault("session.ttl", d.Session.TTL)
	viper.SetDefault("transfer.debounce", d.Transfer.Debounce)
	viper.SetDefault("transfer.max_amount", d.Transfer.MaxAmount)
	viper.SetDefault("defaults.currency", d.Defaults.Currency)
	viper.SetDefault("defaults.category_id", d.Defaults.CategoryID)
	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.path", d.Log.Path)
}

func createDefaultConfig(appDir string) error {
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(appDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
