package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "query REPOSITORY HYQL",
		Short: "Run a HyQL query",
		Long:  `Run a HyQL query against a repository and print the resulting entities.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := connectRepository(args[0])
			if err != nil {
				return err
			}

			entities, err := repo.HyQL(context.Background(), args[1])
			if err != nil {
				return fmt.Errorf("query failed: %w", err)
			}

			return outputEntities(entities)
		},
	}
}
