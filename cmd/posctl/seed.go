package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed FILE",
	Short: "Load suppliers, inventory, clients and the rate from a JSON5 file",
	Long: `Load seed data from a JSON5 file. Stores that already hold records are
left untouched and reported as skipped, so running seed twice is harmless.`,
	Example: "  posctl seed testdata/seed.json5",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := openServices()
		if err != nil {
			return err
		}
		result, err := services.Seed.LoadFile(args[0], operatorFlag(cmd))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Suppliers: %d\nInventory: %d\nClients:   %d\nRate set:  %t\n",
			result.Suppliers, result.Inventory, result.Clients, result.Rate)
		if len(result.Skipped) > 0 {
			fmt.Fprintf(out, "Skipped:   %s\n", strings.Join(result.Skipped, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
