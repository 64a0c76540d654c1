package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sectorviz/sectorviz/pkg/disk"
)

// newInspectCmd creates the inspect command: an interactive browser over a
// listing's tracks, for checking what an analysis produced before rendering.
func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [listing]",
		Short: "Browse a disk listing's tracks interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := disk.ReadListingFile(args[0])
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(NewTrackListModel(d)).Run()
			return err
		},
	}
}
