package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice SALE_ID",
	Short: "Print the invoice of a sale",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid sale id %q", args[0])
		}
		services, err := openServices()
		if err != nil {
			return err
		}
		inv, err := services.Sales.Invoice(id)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(inv)
		}
		return inv.WriteText(cmd.OutOrStdout())
	},
}

func init() {
	invoiceCmd.Flags().Bool("json", false, "Print the invoice as JSON")
	rootCmd.AddCommand(invoiceCmd)
}
