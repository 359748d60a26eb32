package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/fx"

	"github.com/brizzai/auth-gateway/internal/auth"
	"github.com/brizzai/auth-gateway/internal/config"
	"github.com/brizzai/auth-gateway/internal/logger"
	"github.com/brizzai/auth-gateway/internal/server"
	"github.com/brizzai/auth-gateway/internal/token"
)

func main() {
	Execute()
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "auth-gateway",
	Short: "OAuth session gateway",
	Long: `auth-gateway exchanges Google authorization codes for self-contained
signed session tokens and gates protected endpoints on them.`,
	RunE: runServer,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Place version check in PreRun to ensure flags are parsed first
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			pterm.Info.Println(config.GetVersionInfo())
			os.Exit(0)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	config.InitFlags()
	rootCmd.PersistentFlags().AddFlagSet(pflag.CommandLine)
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.InitLogger(&cfg.Logging); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var srv *server.Server
	app := fx.New(
		fx.Supply(cfg),
		fx.Provide(
			func(c *config.Config) *config.JWTConfig { return &c.JWT },
			func(c *config.Config) *config.GoogleConfig { return &c.Google },
			func(c *config.Config) *config.ClientConfig { return &c.Client },
		),
		token.Module,
		auth.Module,
		server.Module,
		fx.Populate(&srv),
		fx.NopLogger,
	)
	if err := app.Err(); err != nil {
		return err
	}

	return srv.Start(ctx)
}
