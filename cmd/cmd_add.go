package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"auction_scout/internal/domain/entity"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a product to the catalog",
	Long: `Add a product to the local catalog without researching it.

Example:
  auction-scout add --upc 012345678905 --name "Stand Mixer" --brand KitchenAid`,
	RunE: runAdd,
}

var (
	addUPC      string
	addName     string
	addBrand    string
	addModel    string
	addCategory string
)

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addUPC, "upc", "", "Product UPC (required)")
	addCmd.Flags().StringVar(&addName, "name", "", "Product name (required)")
	addCmd.Flags().StringVar(&addBrand, "brand", "", "Product brand")
	addCmd.Flags().StringVar(&addModel, "model", "", "Product model")
	addCmd.Flags().StringVar(&addCategory, "category", "", "Product category")

	_ = addCmd.MarkFlagRequired("upc")
	_ = addCmd.MarkFlagRequired("name")
}

func runAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	product := entity.Product{
		UPC:      addUPC,
		Name:     addName,
		Brand:    addBrand,
		Model:    addModel,
		Category: addCategory,
	}

	if err = a.products.Upsert(ctx, &product); err != nil {
		return fmt.Errorf("products.Upsert: %w", err)
	}

	printProduct(os.Stdout, product)

	return nil
}
