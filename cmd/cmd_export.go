package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"auction_scout/internal/domain/entity"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored research reports to CSV",
	Long: `Re-aggregate every stored product from its saved observations and
write the resulting reports as CSV. Products without usable data are
skipped with a warning.

Example:
  auction-scout export --out reports.csv`,
	RunE: runExport,
}

var (
	exportOut   string
	exportLimit int
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportOut, "out", "reports.csv", "Output CSV path")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 1000, "Maximum products to export")
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	products, err := a.products.List(ctx, exportLimit, 0)
	if err != nil {
		return fmt.Errorf("products.List: %w", err)
	}

	var reports []entity.ResearchReport

	for _, product := range products {
		report, err := a.service.ReaggregateProduct(ctx, product)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipped %s: %v\n", product.Key(), err)
			continue
		}

		reports = append(reports, report)
	}

	if len(reports) == 0 {
		return fmt.Errorf("nothing to export")
	}

	if err = writeCSVFile(exportOut, reports); err != nil {
		return err
	}

	fmt.Printf("wrote %d report(s) to %s\n", len(reports), exportOut)

	return nil
}
