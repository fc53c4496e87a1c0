package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kutbudev/taskboard/internal/cli/commands"
)

// Version will be set during build with ldflags
var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "taskboard-cli",
		Short:   "Command line client for the taskboard API",
		Version: Version,
	}

	rootCmd.AddCommand(commands.NewTaskCmd())
	rootCmd.AddCommand(commands.NewCategoryCmd())
	rootCmd.AddCommand(commands.NewKanbanCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
