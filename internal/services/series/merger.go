package series

import (
	"sort"
	"time"

	"StockForecast/internal/domain/models"
)

// Merge lays history and every forecast column onto the sorted union of their
// dates. The history column comes first, forecast columns follow in table order.
// Cells with no value stay nil; nothing is filled or extrapolated.
func Merge(history models.PriceSeries, table models.ForecastTable) models.ChartDataset {
	seen := make(map[time.Time]struct{}, len(history.Dates)+len(table.Dates))
	for _, d := range history.Dates {
		seen[models.Day(d)] = struct{}{}
	}
	for _, d := range table.Dates {
		seen[models.Day(d)] = struct{}{}
	}

	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	row := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		row[d] = i
	}

	out := models.ChartDataset{
		Dates:   dates,
		Columns: make([]models.ChartColumn, 0, 1+len(table.Columns)),
	}
	out.Columns = append(out.Columns, column(models.HistoryColumn, history.Dates, history.Values, row, len(dates)))
	for _, c := range table.Columns {
		out.Columns = append(out.Columns, column(c.Strategy, table.Dates, c.Values, row, len(dates)))
	}
	return out
}

func column(name string, dates []time.Time, values []float64, row map[time.Time]int, n int) models.ChartColumn {
	cells := make([]*float64, n)
	for i, d := range dates {
		if i >= len(values) || !models.IsFinite(values[i]) {
			continue
		}
		v := values[i]
		cells[row[models.Day(d)]] = &v
	}
	return models.ChartColumn{Name: name, Values: cells}
}
