package forecast

import (
	"context"
	"fmt"
	"time"

	"StockForecast/internal/domain/models"
	domsvc "StockForecast/internal/domain/service"
)

const dateLayout = "2006-01-02"

// RemoteStrategy delegates one named strategy to an HTTP forecasting service.
type RemoteStrategy struct {
	name string
	base *HTTPServiceBase
}

func NewRemoteStrategy(name string, base *HTTPServiceBase) *RemoteStrategy {
	return &RemoteStrategy{name: name, base: base}
}

type remotePoint struct {
	DS string  `json:"ds"`
	Y  float64 `json:"y"`
}

type remoteReq struct {
	Strategy string        `json:"strategy"`
	Horizon  int           `json:"horizon"`
	Series   []remotePoint `json:"series"`
}

type remoteFramePoint struct {
	DS   string   `json:"ds"`
	YHat *float64 `json:"yhat"`
}

type remoteResp struct {
	Forecast []remoteFramePoint `json:"forecast"`
}

func (r *RemoteStrategy) Name() string { return r.name }

func (r *RemoteStrategy) Forecast(ctx context.Context, series models.PriceSeries, horizon int) (models.ForecastSeries, error) {
	if err := checkInput(series, horizon); err != nil {
		return models.ForecastSeries{}, err
	}
	req := remoteReq{Strategy: r.name, Horizon: horizon, Series: make([]remotePoint, len(series.Dates))}
	for i, d := range series.Dates {
		req.Series[i] = remotePoint{DS: d.Format(dateLayout), Y: series.Values[i]}
	}

	var resp remoteResp
	if err := r.base.PostJSON(ctx, "/forecast", req, &resp); err != nil {
		return models.ForecastSeries{}, fmt.Errorf("%w: remote %s: %w", models.ErrModelFit, r.name, err)
	}

	frame := make([]FramePoint, 0, len(resp.Forecast))
	for _, p := range resp.Forecast {
		if p.YHat == nil {
			continue
		}
		ds, err := time.Parse(dateLayout, p.DS)
		if err != nil {
			return models.ForecastSeries{}, fmt.Errorf("%w: remote %s: bad ds %q", models.ErrModelFit, r.name, p.DS)
		}
		frame = append(frame, FramePoint{DS: ds, YHat: *p.YHat})
	}
	return fromFrame(r.name, series.LastDate(), frame, horizon)
}

var _ domsvc.ForecastStrategy = (*RemoteStrategy)(nil)
