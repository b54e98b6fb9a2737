package options

import (
	"github.com/spf13/cobra"
)

// ContainerOptions selects the container an item goes to.
type ContainerOptions struct {
	Container string
}

// AddContainerArgs wires the destination flag on the provided command.
func AddContainerArgs(cmd *cobra.Command, o *ContainerOptions, def string) {
	cmd.Flags().StringVarP(&o.Container, "to", "t", def,
		`Destination container: "itemContainer" or a category id.`)
}

// ForceOptions
type ForceOptions struct {
	Force bool
}

func AddForceArgs(cmd *cobra.Command, o *ForceOptions) {
	cmd.Flags().BoolVarP(&o.Force, "force", "f", false,
		"Discard unsaved changes.")
}
