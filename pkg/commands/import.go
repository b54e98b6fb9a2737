package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/itemboard/pkg/runner/imports"
)

func addImport(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import items or categories from a JSON file",
		Example: `
itemboard import items list.json
itemboard import categories groups.json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addImportOf(cmd, false)
	addImportOf(cmd, true)

	topLevel.AddCommand(cmd)
}

func addImportOf(topLevel *cobra.Command, categories bool) {
	use, short := "items <file>", `Import a JSON array of item texts, e.g. ["a", "b"]`
	if categories {
		use, short = "categories <file>", `Import a JSON array of categories, e.g. [{"name": "x", "items": ["a"]}]`
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires a file")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			w, _, err := openWorkspace()
			if err != nil {
				return output.HandleError(err)
			}
			s := imports.Import{
				Categories: categories,
				Path:       args[0],
				Workspace:  w,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
