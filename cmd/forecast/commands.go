package main

import (
	"fmt"
	"time"

	"StockForecast/internal/handler/api"
	"StockForecast/internal/usecase"
	"StockForecast/pkg/util"

	"github.com/spf13/cobra"
)

func parseDateFlag(name, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, ok := util.ParseDate(v)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid --%s %q: want YYYY-MM-DD", name, v)
	}
	return t, nil
}

func newRunCmd() *cobra.Command {
	var (
		start, end string
		horizon    int
		strategies string
		tableOnly  bool
	)
	cmd := &cobra.Command{
		Use:   "run SYMBOL",
		Short: "Fetch history and forecast it with the selected strategies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseDateFlag("start", start)
			if err != nil {
				return err
			}
			to, err := parseDateFlag("end", end)
			if err != nil {
				return err
			}

			svc, cleanup, err := services()
			if err != nil {
				return err
			}
			defer cleanup()

			// Without the flag the configured defaults run; --strategies=""
			// runs none and prints history only.
			names := []string(svc.Defaults)
			if cmd.Flags().Changed("strategies") {
				names = util.SplitList(strategies)
			}

			run, err := svc.Pipeline.Run(cmd.Context(), usecase.ForecastParams{
				Symbol:     args[0],
				Start:      from,
				End:        to,
				Horizon:    horizon,
				Strategies: names,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if tableOnly {
				if jsonOutput {
					return writeJSON(out, api.NewTableResponse(run))
				}
				return writeTable(out, run)
			}
			if jsonOutput {
				return writeJSON(out, api.NewForecastResponse(run))
			}
			return writeChart(out, run)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first day of history (default 2020-01-01)")
	cmd.Flags().StringVar(&end, "end", "", "last day of history (default today)")
	cmd.Flags().IntVar(&horizon, "horizon", 0, "days to forecast (default forecast.horizon)")
	cmd.Flags().StringVar(&strategies, "strategies", "", "comma-separated strategy names (default forecast.default_strategies)")
	cmd.Flags().BoolVar(&tableOnly, "table", false, "print only the aligned forecast rows")
	return cmd
}

func newPricesCmd() *cobra.Command {
	var (
		start, end string
		limit      int
	)
	cmd := &cobra.Command{
		Use:   "prices SYMBOL",
		Short: "Print raw daily records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseDateFlag("start", start)
			if err != nil {
				return err
			}
			to, err := parseDateFlag("end", end)
			if err != nil {
				return err
			}

			svc, cleanup, err := services()
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.Prices.GetPrices(cmd.Context(), usecase.GetPricesParams{
				Symbol: args[0],
				From:   from,
				To:     to,
				Limit:  limit,
			})
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), api.NewPricesResponse(res))
			}
			return writePrices(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first day (default 2020-01-01)")
	cmd.Flags().StringVar(&end, "end", "", "last day (default today)")
	cmd.Flags().IntVar(&limit, "limit", 0, "keep only the most recent N rows")
	return cmd
}

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List registered forecasting strategies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cleanup, err := services()
			if err != nil {
				return err
			}
			defer cleanup()

			names := svc.Pipeline.Strategies()
			defaults := []string(svc.Defaults)
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), api.StrategiesResponse{Strategies: names, Defaults: defaults})
			}
			return writeStrategies(cmd.OutOrStdout(), names, defaults)
		},
	}
}
