package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"StockForecast/internal/domain/models"
	"StockForecast/internal/usecase"
	"StockForecast/pkg/util"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func cell(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

func writeWarnings(w io.Writer, ws []models.StrategyWarning) {
	for _, wr := range ws {
		fmt.Fprintf(w, "warning: %s: %v\n", wr.Strategy, wr.Err)
	}
}

// writeChart prints history and forecasts on the merged date axis.
func writeChart(w io.Writer, run *models.ForecastRun) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := []string{"Date"}
	for _, c := range run.Chart.Columns {
		header = append(header, c.Name)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
	for i, d := range run.Chart.Dates {
		row := []string{d.Format(util.DateLayout)}
		for _, c := range run.Chart.Columns {
			row = append(row, cell(c.Values[i]))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	writeWarnings(w, run.Warnings)
	return nil
}

// writeTable prints only the aligned forecast rows.
func writeTable(w io.Writer, run *models.ForecastRun) error {
	if run.Table.IsEmpty() {
		fmt.Fprintln(w, "no forecasts")
		writeWarnings(w, run.Warnings)
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Date\t"+strings.Join(run.Table.Strategies(), "\t")+"\t")
	for i, d := range run.Table.Dates {
		row := []string{d.Format(util.DateLayout)}
		for _, c := range run.Table.Columns {
			row = append(row, fmt.Sprintf("%.2f", c.Values[i]))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	writeWarnings(w, run.Warnings)
	return nil
}

func writePrices(w io.Writer, res *usecase.GetPricesResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Date\tOpen\tHigh\tLow\tClose\tVolume\t")
	for _, r := range res.Records {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.0f\t\n",
			r.Date.Format(util.DateLayout), r.Open, r.High, r.Low, r.Close, r.Volume)
	}
	return tw.Flush()
}

// writeStrategies lists names, marking the defaults with '*'.
func writeStrategies(w io.Writer, names, defaults []string) error {
	isDefault := make(map[string]bool, len(defaults))
	for _, d := range defaults {
		isDefault[d] = true
	}
	for _, n := range names {
		mark := " "
		if isDefault[n] {
			mark = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", mark, n); err != nil {
			return err
		}
	}
	return nil
}
