package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valescamoura/hkgo/pkg/hk"
	"github.com/valescamoura/hkgo/pkg/hklib"
)

// NewEntityCommand creates the entity command group.
func NewEntityCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entity",
		Aliases: []string{"entities"},
		Short:   "Manage entities",
		Long:    "Add, retrieve, and delete entities in an hkbase repository",
	}

	cmd.AddCommand(newEntityAddCommand())
	cmd.AddCommand(newEntityGetCommand())
	cmd.AddCommand(newEntityDeleteCommand())
	cmd.AddCommand(newEntityClearCommand())

	return cmd
}

func newEntityAddCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "add REPOSITORY",
		Short: "Add entities from a JSON file or stdin",
		Long: `Add entities to a repository. The input is a JSON array of entity
objects, read from --file or stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(file)
			if err != nil {
				return err
			}

			var entities []map[string]any
			if err := json.Unmarshal(data, &entities); err != nil {
				return fmt.Errorf("failed to parse entities: %w", err)
			}

			repo, err := connectRepository(args[0])
			if err != nil {
				return err
			}

			items := make([]any, 0, len(entities))
			for _, entity := range entities {
				items = append(items, entity)
			}

			if err := repo.AddEntities(context.Background(), nil, items...); err != nil {
				return fmt.Errorf("failed to add entities: %w", err)
			}

			fmt.Printf("Added %d entities to %q\n", len(entities), args[0])

			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "entity JSON file (default stdin)")

	return cmd
}

func newEntityGetCommand() *cobra.Command {
	var filterJSON string

	cmd := &cobra.Command{
		Use:   "get REPOSITORY [FILTER]",
		Short: "Retrieve entities",
		Long: `Retrieve entities matching a filter. A positional FILTER is sent as a
plain-text filter; --filter-json sends a structured JSON filter. With
neither, all entities are returned.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := connectRepository(args[0])
			if err != nil {
				return err
			}

			var filter any = map[string]any{}

			switch {
			case len(args) == 2:
				filter = args[1]
			case filterJSON != "":
				var parsed map[string]any
				if err := json.Unmarshal([]byte(filterJSON), &parsed); err != nil {
					return fmt.Errorf("failed to parse filter: %w", err)
				}

				filter = parsed
			}

			entities, err := repo.GetEntities(context.Background(), filter)
			if err != nil {
				return fmt.Errorf("failed to retrieve entities: %w", err)
			}

			return outputEntities(entities)
		},
	}

	cmd.Flags().StringVar(&filterJSON, "filter-json", "", "structured JSON filter")

	return cmd
}

func newEntityDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete REPOSITORY ID...",
		Short: "Delete entities by id",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := connectRepository(args[0])
			if err != nil {
				return err
			}

			ids := make([]any, 0, len(args)-1)
			for _, id := range args[1:] {
				ids = append(ids, id)
			}

			if err := repo.DeleteEntities(context.Background(), nil, ids...); err != nil {
				return fmt.Errorf("failed to delete entities: %w", err)
			}

			fmt.Printf("Deleted %d entities from %q\n", len(ids), args[0])

			return nil
		},
	}
}

func newEntityClearCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear REPOSITORY",
		Short: "Delete all entities in a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				fmt.Printf("Really delete all entities in %q? (y/N): ", args[0])

				var answer string

				_, _ = fmt.Scanln(&answer)
				if answer != "y" && answer != "yes" {
					fmt.Println("Cancelled")

					return nil
				}
			}

			repo, err := connectRepository(args[0])
			if err != nil {
				return err
			}

			if err := repo.Clear(context.Background()); err != nil {
				return fmt.Errorf("failed to clear repository: %w", err)
			}

			fmt.Printf("Repository %q cleared\n", args[0])

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "clear without confirmation")

	return cmd
}

func connectRepository(name string) (hk.RepositoryClient, error) {
	client, err := CreateClient()
	if err != nil {
		return nil, err
	}

	repo, err := client.ConnectRepository(context.Background(), name)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to repository: %w", err)
	}

	return repo, nil
}

func readInput(file string) ([]byte, error) {
	if file == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	return data, nil
}

func outputEntities(entities []hklib.Entity) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return StandardJSONRenderer(entityMaps(entities))
	case OutputFormatYAML:
		return StandardYAMLRenderer(entityMaps(entities))
	default:
		return renderEntityTable(entities)
	}
}

func renderEntityTable(entities []hklib.Entity) error {
	if len(entities) == 0 {
		_, _ = os.Stdout.WriteString("No entities found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Type", "Parent")

	for _, entity := range entities {
		parent := ""
		if m := entity.ToMap(); m["parent"] != nil {
			parent, _ = m["parent"].(string)
		}

		_ = table.Append(entity.EntityID(), string(entity.EntityType()), parent)
	}

	_ = table.Render()

	return nil
}
