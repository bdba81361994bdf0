package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/ppusim/datarecording"
	"github.com/sarchlab/ppusim/ppu"
)

func newReportCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report <recording.sqlite3>",
		Short: "Summarize the units of a recording made with run --record.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := datarecording.Open(args[0])
			if err != nil {
				return err
			}
			defer reader.Close()

			summaries, err := ppu.Summarize(cmd.Context(), reader)
			if err != nil {
				return err
			}

			root.logger.Debug("recording read",
				"path", args[0], "units", len(summaries))

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "UNIT\tCYCLES\tVALID\tBACK-PRESSURED\tADMITTED\t"+
				"COLLISIONS\tPLACEMENTS\tFORWARDED\tOARAM")

			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
					s.Unit, s.Cycles, s.ValidCycles, s.BackPressured,
					s.Admitted, s.Collisions, s.Placements, s.Forwarded,
					s.OARAMEntries)
			}

			return w.Flush()
		},
	}
}
