package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"auction_scout/internal/domain"
	"auction_scout/pkg/errcodes"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <upc>",
	Short: "Show a stored product and its latest estimate",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	product, err := a.products.GetByUPC(ctx, args[0])
	if err != nil {
		return fmt.Errorf("products.GetByUPC: %w", err)
	}

	report, err := a.service.Reaggregate(ctx, product.UPC)
	if err != nil {
		if domain.IsCode(err, errcodes.InsufficientData) {
			printProduct(os.Stdout, *product)
			fmt.Println("\nno stored observations yet, run `auction-scout research` first")
			return nil
		}

		return fmt.Errorf("service.Reaggregate: %w", err)
	}

	printReport(os.Stdout, report)

	return nil
}
