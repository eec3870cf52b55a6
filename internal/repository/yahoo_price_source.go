package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"StockForecast/internal/domain/models"
	domrepo "StockForecast/internal/domain/repository"
	pkghttp "StockForecast/pkg/http"
	applogger "StockForecast/pkg/logger"
)

// YahooPriceSource reads daily bars from the Yahoo Finance chart API.
type YahooPriceSource struct {
	client    *pkghttp.Client
	baseURL   string
	userAgent string
	l         *applogger.Logger
}

var _ domrepo.PriceSource = (*YahooPriceSource)(nil)

func NewYahooPriceSource(client *pkghttp.Client, baseURL, userAgent string, l *applogger.Logger) *YahooPriceSource {
	if l == nil {
		l = applogger.Nop()
	}
	return &YahooPriceSource{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		l:         l,
	}
}

type yahooChartResponse struct {
	Chart struct {
		Result []yahooChartResult `json:"result"`
		Error  *yahooError        `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type yahooChartResult struct {
	Meta struct {
		Symbol    string `json:"symbol"`
		GMTOffset int    `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []yahooQuote `json:"quote"`
	} `json:"indicators"`
}

type yahooQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

// GetDailyPrices fetches [from, to] inclusive. Unknown symbols yield no records.
func (s *YahooPriceSource) GetDailyPrices(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceRecord, error) {
	start := time.Now()
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	q := map[string][]string{
		"interval": {"1d"},
		"events":   {"history"},
	}
	if !from.IsZero() {
		q["period1"] = []string{strconv.FormatInt(models.Day(from).Unix(), 10)}
	} else {
		q["period1"] = []string{"0"}
	}
	if to.IsZero() {
		to = time.Now()
	}
	q["period2"] = []string{strconv.FormatInt(models.Day(to).AddDate(0, 0, 1).Unix(), 10)}

	var resp yahooChartResponse
	err := s.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:      pkghttp.MethodGet,
		URL:         fmt.Sprintf("%s/v8/finance/chart/%s", s.baseURL, url.PathEscape(symbol)),
		Headers:     map[string]string{"User-Agent": s.userAgent, "Accept": "application/json"},
		QueryParams: q,
	}, &resp)
	if err != nil {
		var se *pkghttp.StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			s.l.Info("yahoo symbol not found", applogger.String("symbol", symbol))
			return nil, nil
		}
		s.l.Error("yahoo chart request failed",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart %s: %s: %s", symbol, resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, nil
	}

	out := parseChart(symbol, resp.Chart.Result[0])
	s.l.Debug("yahoo chart ok",
		applogger.String("symbol", symbol),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}

// parseChart converts the column-oriented chart payload into records dated
// on the exchange calendar. Rows without a close are dropped.
func parseChart(symbol string, r yahooChartResult) []models.PriceRecord {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	quote := r.Indicators.Quote[0]
	offset := time.Duration(r.Meta.GMTOffset) * time.Second

	out := make([]models.PriceRecord, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		c := at(quote.Close, i)
		if c == nil {
			continue
		}
		out = append(out, models.PriceRecord{
			Date:   models.Day(time.Unix(ts, 0).UTC().Add(offset)),
			Symbol: symbol,
			Open:   deref(at(quote.Open, i)),
			High:   deref(at(quote.High, i)),
			Low:    deref(at(quote.Low, i)),
			Close:  *c,
			Volume: deref(at(quote.Volume, i)),
		})
	}
	return out
}

func at(vals []*float64, i int) *float64 {
	if i < len(vals) {
		return vals[i]
	}
	return nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
