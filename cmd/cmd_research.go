package main

import (
	"errors"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"auction_scout/internal/domain/entity"
	"auction_scout/internal/domain/value"
	"auction_scout/internal/infrastructure/export"
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Research resale prices and recommend a max bid",
	Long: `Research one product (via flags) or a batch (via --file) against the
configured marketplaces. The exit status is non-zero when no product
produced a usable estimate.

Examples:
  auction-scout research --upc 012345678905
  auction-scout research --name "KitchenAid mixer" --brand KitchenAid
  auction-scout research --file queries.json --csv results.csv`,
	RunE: runResearch,
}

var (
	researchUPC   string
	researchName  string
	researchBrand string
	researchModel string
	researchFile  string
	researchCSV   string
)

var errNoUsableEstimates = errors.New("no product produced a usable estimate")

func init() {
	rootCmd.AddCommand(researchCmd)

	researchCmd.Flags().StringVar(&researchUPC, "upc", "", "Product UPC")
	researchCmd.Flags().StringVar(&researchName, "name", "", "Product name")
	researchCmd.Flags().StringVar(&researchBrand, "brand", "", "Product brand")
	researchCmd.Flags().StringVar(&researchModel, "model", "", "Product model")
	researchCmd.Flags().StringVar(&researchFile, "file", "", "JSON file with a batch of queries")
	researchCmd.Flags().StringVar(&researchCSV, "csv", "", "Write successful reports to a CSV file")
}

func runResearch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	queries, err := researchQueries()
	if err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	results, summary := a.scanner().RunBatch(ctx, queries)

	var reports []entity.ResearchReport

	for _, result := range results {
		if result.Err != nil {
			fmt.Fprintf(os.Stderr, "skipped %s: %v\n", result.Query.String(), result.Err)
			continue
		}

		printReport(os.Stdout, result.Report)
		reports = append(reports, result.Report)
	}

	if researchCSV != "" && len(reports) > 0 {
		if err = writeCSVFile(researchCSV, reports); err != nil {
			return err
		}
		fmt.Printf("wrote %d report(s) to %s\n", len(reports), researchCSV)
	}

	if !summary.AnyUsable() {
		return errNoUsableEstimates
	}

	return nil
}

func researchQueries() ([]value.ProductQuery, error) {
	if researchFile != "" {
		return readQueryFile(researchFile)
	}

	query := value.ProductQuery{
		UPC:   researchUPC,
		Name:  researchName,
		Brand: researchBrand,
		Model: researchModel,
	}

	if err := query.Validate(); err != nil {
		return nil, err
	}

	return []value.ProductQuery{query}, nil
}

func readQueryFile(path string) ([]value.ProductQuery, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open query file: %w", err)
	}
	defer f.Close()

	var raw []struct {
		UPC   string `json:"upc"`
		Name  string `json:"name"`
		Brand string `json:"brand"`
		Model string `json:"model"`
	}

	if err = jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(f).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode query file: %w", err)
	}

	queries := make([]value.ProductQuery, 0, len(raw))

	for i, r := range raw {
		query := value.ProductQuery{UPC: r.UPC, Name: r.Name, Brand: r.Brand, Model: r.Model}
		if err = query.Validate(); err != nil {
			return nil, fmt.Errorf("query #%d: %w", i+1, err)
		}
		queries = append(queries, query)
	}

	return queries, nil
}

func writeCSVFile(path string, reports []entity.ResearchReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	if err = export.WriteCSV(f, reports); err != nil {
		return fmt.Errorf("export.WriteCSV: %w", err)
	}

	return nil
}
