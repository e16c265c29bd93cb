package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"go-pos-ledger/internal/model"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [ITEM_ID]",
	Short: "Print the inventory ledger, optionally for one item",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := openServices()
		if err != nil {
			return err
		}

		var entries []model.InventoryHistoryEntry
		if len(args) == 1 {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}
			if entries, err = services.Inventory.History(id); err != nil {
				return err
			}
		} else {
			entries = services.Inventory.AllHistory()
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tITEM\tDATE\tTYPE\tQTY\tPREV\tNEW\tBY\tNOTES")
		for _, e := range entries {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%+d\t%d\t%d\t%s\t%s\n",
				e.ID, e.ItemID, e.Date.Format("2006-01-02 15:04"), e.TransactionType,
				e.Quantity, e.PreviousQuantity, e.NewQuantity, e.CreatedBy, e.Notes)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
