package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Show or change the USD exchange rate",
}

var rateGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current exchange rate",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := openServices()
		if err != nil {
			return err
		}
		rate, err := services.Rates.CurrentRate()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), rate.String())
		return nil
	},
}

var rateSetCmd = &cobra.Command{
	Use:     "set RATE",
	Short:   "Store a new exchange rate (local units per USD)",
	Example: "  posctl rate set 36.50",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rate, err := decimal.NewFromString(args[0])
		if err != nil {
			return fmt.Errorf("invalid rate %q: %w", args[0], err)
		}
		services, err := openServices()
		if err != nil {
			return err
		}
		stored, err := services.Rates.SetRate(rate, operatorFlag(cmd))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exchange rate set to %s\n", stored.String())
		return nil
	},
}

func init() {
	rateCmd.AddCommand(rateGetCmd, rateSetCmd)
	rootCmd.AddCommand(rateCmd)
}
