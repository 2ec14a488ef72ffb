package commands

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valescamoura/hkgo/internal/constants"
	"github.com/valescamoura/hkgo/pkg/hk"
)

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	var (
		file     string
		datatype string
		asHK     bool
		parent   string
	)

	cmd := &cobra.Command{
		Use:   "import REPOSITORY",
		Short: "Import data into a repository",
		Long: `Import RDF data or entity JSON into a repository. The input is read from
--file or stdin. With --as-hk the input is parsed as an entity JSON array
and added directly; otherwise it is sent to the RDF import endpoint with
the given --datatype.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(file)
			if err != nil {
				return err
			}

			repo, err := connectRepository(args[0])
			if err != nil {
				return err
			}

			opts := &hk.ImportOptions{AsHK: asHK}
			if parent != "" {
				opts.Context = parent
			}

			err = repo.ImportData(context.Background(), bytes.NewReader(data), datatype, opts)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			fmt.Printf("Imported %d bytes into %q\n", len(data), args[0])

			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "data file (default stdin)")
	cmd.Flags().StringVarP(&datatype, "datatype", "d", constants.ContentTypeTurtle, "RDF mimetype of the data")
	cmd.Flags().BoolVar(&asHK, "as-hk", false, "treat the input as entity JSON")
	cmd.Flags().StringVar(&parent, "context", "", "parent context id")

	return cmd
}
