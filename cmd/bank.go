package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/ppusim/ppu/bankaddr"
)

type bankOptions struct {
	row, column, channel int
	bankCount            int
	tileSize             int
}

func newBankCommand(root *rootOptions) *cobra.Command {
	opts := &bankOptions{}

	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Print the bank and entry a partial sum coordinate maps to.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := bankaddr.BufferAddressInfo{
				BankCount: root.cfg.BankCount,
				TileSize:  root.cfg.TileSize,
			}

			if cmd.Flags().Changed("bank-count") {
				info.BankCount = opts.bankCount
			}

			if cmd.Flags().Changed("tile-size") {
				info.TileSize = opts.tileSize
			}

			if err := info.Validate(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "bank=%d entry=%d\n",
				bankaddr.BankIndexFor(opts.row, opts.column, opts.channel, info),
				bankaddr.EntryIndex(opts.row, opts.column, opts.channel, info))

			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.row, "row", 0, "Row of the partial sum.")
	flags.IntVar(&opts.column, "column", 0, "Column of the partial sum.")
	flags.IntVar(&opts.channel, "channel", 0, "Channel of the partial sum.")
	flags.IntVar(&opts.bankCount, "bank-count", 0, "Number of banks.")
	flags.IntVar(&opts.tileSize, "tile-size", 0, "Tile size.")

	return cmd
}
