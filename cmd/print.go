package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"auction_scout/internal/domain/entity"
)

func printReport(w io.Writer, report entity.ResearchReport) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	title := report.Product.Name
	if title == "" {
		title = report.Product.UPC
	}

	fmt.Fprintf(tw, "Product:\t%s\n", title)
	if report.Product.UPC != "" {
		fmt.Fprintf(tw, "UPC:\t%s\n", report.Product.UPC)
	}
	if report.Product.Brand != "" || report.Product.Model != "" {
		fmt.Fprintf(tw, "Brand/Model:\t%s %s\n", report.Product.Brand, report.Product.Model)
	}

	fmt.Fprintf(tw, "Samples:\t%d", report.Stats.SampleSize)
	if report.Stats.OutliersCut > 0 {
		fmt.Fprintf(tw, " (%d outliers cut)", report.Stats.OutliersCut)
	}
	if report.Stats.ActiveFallback {
		fmt.Fprint(tw, " [active listings only]")
	}
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "Lowest sold:\t$%.2f\n", report.Stats.LowestSold)
	fmt.Fprintf(tw, "Median sold:\t$%.2f\n", report.Stats.MedianSold)
	fmt.Fprintf(tw, "Mean sold:\t$%.2f\n", report.Stats.MeanSold)
	fmt.Fprintf(tw, "Confidence:\t%s\n", report.Stats.Confidence)

	fmt.Fprintf(tw, "Recommended max bid:\t$%.2f (limited by %s)\n",
		report.Estimate.RecommendedMaxBid, report.Estimate.BindingConstraint)
	fmt.Fprintf(tw, "Profit at max bid:\t$%.2f (%.1f%% margin)\n",
		report.Estimate.Profit, report.Estimate.ProfitMarginPct)

	fmt.Fprintln(tw)
	tw.Flush()
}

func printProduct(w io.Writer, product entity.Product) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "UPC:\t%s\n", product.UPC)
	fmt.Fprintf(tw, "Name:\t%s\n", product.Name)
	if product.Brand != "" {
		fmt.Fprintf(tw, "Brand:\t%s\n", product.Brand)
	}
	if product.Model != "" {
		fmt.Fprintf(tw, "Model:\t%s\n", product.Model)
	}
	if product.Category != "" {
		fmt.Fprintf(tw, "Category:\t%s\n", product.Category)
	}

	tw.Flush()
}
