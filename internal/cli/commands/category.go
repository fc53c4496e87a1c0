package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kutbudev/taskboard/internal/api"
)

// NewCategoryCmd creates the category command with all subcommands
func NewCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Short:   "Category management commands",
		Aliases: []string{"cat"},
	}

	cmd.AddCommand(newCategoryListCmd())
	cmd.AddCommand(newCategoryCreateCmd())
	cmd.AddCommand(newCategoryDeleteCmd())

	return cmd
}

func newCategoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List categories",
		Aliases: []string{"ls"},
		Run: func(cmd *cobra.Command, args []string) {
			client := api.NewClient()
			categories, err := client.ListCategories()
			if err != nil {
				fmt.Printf("❌ Error fetching categories: %v\n", err)
				os.Exit(1)
			}

			if len(categories) == 0 {
				fmt.Println("No categories found")
				return
			}
			for _, category := range categories {
				fmt.Printf("#%d %s (%s)\n", category.ID, category.Name, category.Color)
			}
		},
	}
}

func newCategoryCreateCmd() *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:     "create [name]",
		Short:   "Create a new category",
		Aliases: []string{"add"},
		Args:    cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			client := api.NewClient()
			category, err := client.CreateCategory(strings.Join(args, " "), color)
			if err != nil {
				fmt.Printf("❌ Failed to create category: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("✅ Created category #%d: %s (%s)\n", category.ID, category.Name, category.Color)
		},
	}

	cmd.Flags().StringVarP(&color, "color", "c", "", "Hex color like #3B82F6")

	return cmd
}

func newCategoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete [id]",
		Short:   "Delete a category (tasks keep existing without it)",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id := mustParseID(args[0])

			client := api.NewClient()
			if err := client.DeleteCategory(id); err != nil {
				fmt.Printf("❌ Failed to delete category: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("🗑️  Category #%d deleted\n", id)
		},
	}
}
