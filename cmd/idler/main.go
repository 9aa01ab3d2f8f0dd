package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/steadfast/idlerest/internal/config"
)

func main() {
	command := NewIdlerCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewIdlerCommand() *cobra.Command {
	cfg := config.Load()
	global := DefaultGlobalOptions(cfg)

	cmd := &cobra.Command{
		Use:          "idler [command] [flags]",
		Short:        "idler estimates the cost of conveyor idlers.",
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	global.Bind(cmd.PersistentFlags())

	cmd.AddCommand(NewCmdEstimate(&global, cfg))
	cmd.AddCommand(NewCmdReference(&global))
	cmd.AddCommand(NewCmdMigrate(&global))

	return cmd
}
