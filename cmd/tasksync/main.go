package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskmaster/tasksync/cmd/tasksync/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "tasksync",
		Short:        "Task sync client",
		Long:         `tasksync keeps a local task collection in sync with the remote task service and exposes it through one-shot commands and an interactive console.`,
		SilenceUsage: true,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewTasksCommand())
	rootCmd.AddCommand(commands.NewConsoleCommand())
	rootCmd.AddCommand(commands.NewServeStubCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
