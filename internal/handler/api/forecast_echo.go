package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"StockForecast/internal/domain/models"
	"StockForecast/internal/service/metrics"
	"StockForecast/internal/service/ratelimit"
	"StockForecast/internal/usecase"
	xhttp "StockForecast/pkg/http"
	xlogger "StockForecast/pkg/logger"
	"StockForecast/pkg/util"

	"github.com/labstack/echo/v4"
)

// ForecastEchoHandler serves forecasts and raw prices over HTTP.
type ForecastEchoHandler struct {
	logger            *xlogger.Logger
	pipeline          *usecase.ForecastPipeline
	prices            *usecase.PricesUseCase
	rl                *ratelimit.Limiter
	metrics           *metrics.Endpoint
	defaultStrategies []string
}

// NewForecastEchoHandler builds the handler. rl and m may be nil.
func NewForecastEchoHandler(
	logger *xlogger.Logger,
	pipeline *usecase.ForecastPipeline,
	prices *usecase.PricesUseCase,
	rl *ratelimit.Limiter,
	m *metrics.Endpoint,
	defaultStrategies []string,
) *ForecastEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &ForecastEchoHandler{
		logger:            logger,
		pipeline:          pipeline,
		prices:            prices,
		rl:                rl,
		metrics:           m,
		defaultStrategies: defaultStrategies,
	}
}

func (h *ForecastEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/forecast", h.Forecast)
	g.GET("/forecast/table", h.Table)
	g.GET("/prices", h.Prices)
	g.GET("/strategies", h.Strategies)
}

// Forecast returns the chart view.
func (h *ForecastEchoHandler) Forecast(c echo.Context) error {
	start := time.Now()
	defer func() { h.observe("forecast", start, c) }()

	run, resp := h.run(c, "forecast")
	if run == nil {
		return resp
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, NewForecastResponse(run))
}

// Table returns the forecast-only rows.
func (h *ForecastEchoHandler) Table(c echo.Context) error {
	start := time.Now()
	defer func() { h.observe("forecast_table", start, c) }()

	run, resp := h.run(c, "forecast_table")
	if run == nil {
		return resp
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, NewTableResponse(run))
}

// run validates the request and executes the pipeline. A nil run means the
// response has been written and its error is returned alongside.
func (h *ForecastEchoHandler) run(c echo.Context, endpoint string) (*models.ForecastRun, error) {
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return nil, xhttp.BadRequestResponse(c, verr)
	}
	if h.rl != nil && !h.rl.Allow(c.RealIP()+":"+endpoint) {
		h.logger.Warn("forecast rate limited",
			xlogger.String("endpoint", endpoint),
			xlogger.String("remote", c.RealIP()),
		)
		return nil, xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("Too many forecast requests, try again shortly"))
	}

	params := usecase.ForecastParams{
		Symbol:     req.Symbol,
		Start:      util.ParseDateDefault(req.Start, time.Time{}),
		End:        util.ParseDateDefault(req.End, time.Time{}),
		Horizon:    req.Horizon,
		Strategies: h.strategiesFor(c, req.Strategies),
	}

	run, err := h.pipeline.Run(c.Request().Context(), params)
	if err != nil {
		h.logger.Error("forecast usecase error",
			xlogger.String("endpoint", endpoint),
			xlogger.String("symbol", req.Symbol),
			xlogger.String("stage", models.FailedStage(err).String()),
			xlogger.Error(err),
		)
		return nil, xhttp.AppErrorResponse(c, mapError(err))
	}
	return run, nil
}

// strategiesFor uses the configured defaults when the query omits the
// parameter entirely; an explicit empty value selects no strategy.
func (h *ForecastEchoHandler) strategiesFor(c echo.Context, raw string) []string {
	if _, present := c.QueryParams()["strategies"]; !present && raw == "" {
		return h.defaultStrategies
	}
	return util.SplitList(raw)
}

// Prices returns the raw records in chronological order.
func (h *ForecastEchoHandler) Prices(c echo.Context) error {
	start := time.Now()
	defer func() { h.observe("prices", start, c) }()

	req := &models.PricesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.prices.GetPrices(c.Request().Context(), usecase.GetPricesParams{
		Symbol: req.Symbol,
		From:   util.ParseDateDefault(req.Start, time.Time{}),
		To:     util.ParseDateDefault(req.End, time.Time{}),
		Limit:  req.Limit,
	})
	if err != nil {
		h.logger.Error("prices usecase error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapError(err))
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=300")
	return xhttp.SuccessResponse(c, NewPricesResponse(res))
}

// Strategies lists the accepted strategy names and the configured defaults.
func (h *ForecastEchoHandler) Strategies(c echo.Context) error {
	defaults := h.defaultStrategies
	if defaults == nil {
		defaults = []string{}
	}
	return xhttp.SuccessResponse(c, StrategiesResponse{
		Strategies: h.pipeline.Strategies(),
		Defaults:   defaults,
	})
}

func (h *ForecastEchoHandler) observe(endpoint string, start time.Time, c echo.Context) {
	status := ""
	if code := c.Response().Status; code >= http.StatusBadRequest {
		status = strconv.Itoa(code)
	}
	h.metrics.Observe(endpoint, start, status)
}

func mapError(err error) *xhttp.AppError {
	switch {
	case errors.Is(err, models.ErrInvalidParams):
		return xhttp.BadRequestError(unwrapMessage(err)).WithError(err)
	case errors.Is(err, models.ErrEmptyInput):
		return xhttp.NotFoundError("No data found for the given stock ticker").WithError(err)
	case errors.Is(err, models.ErrInsufficientData):
		return xhttp.UnprocessableError("Not enough price history to build a forecast").WithError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return xhttp.InternalError("Forecast timed out").WithError(err)
	default:
		return xhttp.InternalError("Something went wrong").WithError(err)
	}
}

// unwrapMessage strips the stage prefix so clients see the validation cause.
func unwrapMessage(err error) string {
	var se *models.StageError
	if errors.As(err, &se) {
		return se.Err.Error()
	}
	return err.Error()
}
