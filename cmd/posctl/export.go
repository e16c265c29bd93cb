package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Write the sales and inventory workbook to an .xlsx file",
	Example: "  posctl export --out report.xlsx",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("out")

		services, err := openServices()
		if err != nil {
			return err
		}

		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := services.Reports.WriteWorkbook(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Workbook written to %s\n", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "pos-report.xlsx", "Output file")
	rootCmd.AddCommand(exportCmd)
}
