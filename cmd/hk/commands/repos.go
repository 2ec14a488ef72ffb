package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewReposCommand creates the repositories command group.
func NewReposCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "repos",
		Aliases: []string{"repositories", "repo"},
		Short:   "Manage repositories",
		Long:    "List, create, and delete hkbase repositories",
	}

	cmd.AddCommand(newReposListCommand())
	cmd.AddCommand(newReposCreateCommand())
	cmd.AddCommand(newReposDeleteCommand())
	cmd.AddCommand(newReposRecreateCommand())

	return cmd
}

func newReposListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List repositories",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			names, err := client.ListRepositories(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list repositories: %w", err)
			}

			return outputRepositories(names)
		},
	}
}

func outputRepositories(names []string) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return StandardJSONRenderer(names)
	case OutputFormatYAML:
		return StandardYAMLRenderer(names)
	default:
		return renderRepositoryTable(names)
	}
}

func renderRepositoryTable(names []string) error {
	if len(names) == 0 {
		_, _ = os.Stdout.WriteString("No repositories found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Repository")

	for _, name := range names {
		_ = table.Append(name)
	}

	_ = table.Render()

	return nil
}

func newReposCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Create a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			if _, err := client.CreateRepository(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to create repository: %w", err)
			}

			fmt.Printf("Repository %q created\n", args[0])

			return nil
		},
	}
}

func newReposDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				fmt.Printf("Really delete repository %q and all its entities? (y/N): ", args[0])

				var answer string

				_, _ = fmt.Scanln(&answer)
				if answer != "y" && answer != "yes" {
					fmt.Println("Cancelled")

					return nil
				}
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			if err := client.DeleteRepository(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete repository: %w", err)
			}

			fmt.Printf("Repository %q deleted\n", args[0])

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete without confirmation")

	return cmd
}

func newReposRecreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "recreate NAME",
		Short: "Create a repository, deleting it first when the create is rejected",
		Long: `Create a repository. When the server rejects the create, the repository
is deleted and created again. A repository that already exists loses its
contents.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			if _, err := client.DeleteCreateRepository(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to recreate repository: %w", err)
			}

			fmt.Printf("Repository %q recreated\n", args[0])

			return nil
		},
	}
}
