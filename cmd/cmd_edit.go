package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <upc>",
	Short: "Edit a stored product",
	Long: `Update fields of a product already in the catalog. Only the flags
you pass are changed.

Example:
  auction-scout edit 012345678905 --brand KitchenAid --model KSM150`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var (
	editName     string
	editBrand    string
	editModel    string
	editCategory string
)

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVar(&editName, "name", "", "New product name")
	editCmd.Flags().StringVar(&editBrand, "brand", "", "New product brand")
	editCmd.Flags().StringVar(&editModel, "model", "", "New product model")
	editCmd.Flags().StringVar(&editCategory, "category", "", "New product category")
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if editName == "" && editBrand == "" && editModel == "" && editCategory == "" {
		return fmt.Errorf("nothing to change, pass at least one of --name/--brand/--model/--category")
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	product, err := a.products.GetByUPC(ctx, args[0])
	if err != nil {
		return fmt.Errorf("products.GetByUPC: %w", err)
	}

	if editName != "" {
		product.Name = editName
	}
	if editBrand != "" {
		product.Brand = editBrand
	}
	if editModel != "" {
		product.Model = editModel
	}
	if editCategory != "" {
		product.Category = editCategory
	}

	if err = a.products.Upsert(ctx, product); err != nil {
		return fmt.Errorf("products.Upsert: %w", err)
	}

	printProduct(os.Stdout, *product)

	return nil
}
