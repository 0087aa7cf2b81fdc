package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	cartCmd "github.com/Alturino/raffa/cart/cmd"
	"github.com/Alturino/raffa/internal/constants"
	"github.com/Alturino/raffa/internal/log"
	menuCmd "github.com/Alturino/raffa/menu/cmd"
	orderCmd "github.com/Alturino/raffa/order/cmd"
)

func Start() {
	logger := log.Get("/var/log/raffa.log", os.Getenv("APPLICATION_ENV")).
		With().
		Str(log.KeyAppName, constants.AppMain).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{Use: "raffa", Short: "Raffa's Treats on Stix ordering backend"}
	commands := []*cobra.Command{
		{
			Use:   "menu",
			Short: "Run menu service",
			Run: func(cmd *cobra.Command, args []string) {
				menuCmd.RunMenuService(cmd.Context())
			},
		},
		{
			Use:   "cart",
			Short: "Run cart service",
			Run: func(cmd *cobra.Command, args []string) {
				cartCmd.RunCartService(cmd.Context())
			},
		},
		{
			Use:   "order",
			Short: "Run order service",
			Run: func(cmd *cobra.Command, args []string) {
				orderCmd.RunOrderService(cmd.Context())
			},
		},
	}
	rootCmd.AddCommand(commands...)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
