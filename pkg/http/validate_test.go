package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quoteRequest struct {
	Symbol  string `query:"symbol" validate:"required,ticker"`
	Day     string `query:"day" default:"2020-01-01" validate:"datetime=2006-01-02"`
	Horizon int    `query:"horizon" default:"30" validate:"gte=1,lte=365"`
}

func bind(t *testing.T, target string) (*quoteRequest, []ValidationError) {
	t.Helper()
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
	req := &quoteRequest{}
	return req, ReadAndValidateRequest(c, req)
}

func TestReadAndValidateRequestDefaults(t *testing.T) {
	req, verr := bind(t, "/?symbol=BRK-B")
	require.Nil(t, verr)
	assert.Equal(t, "2020-01-01", req.Day)
	assert.Equal(t, 30, req.Horizon)
}

func TestReadAndValidateRequestTickers(t *testing.T) {
	for _, sym := range []string{"AAPL", "RY.TO", "%5EGSPC", "EURUSD%3DX"} {
		_, verr := bind(t, "/?symbol="+sym)
		assert.Nil(t, verr, sym)
	}

	_, verr := bind(t, "/?symbol=A%20B")
	require.Len(t, verr, 1)
	assert.Equal(t, "ERR_TICKER", verr[0].Code)
	assert.Equal(t, "symbol", verr[0].Field)
}

func TestReadAndValidateRequestErrors(t *testing.T) {
	_, verr := bind(t, "/")
	require.Len(t, verr, 1)
	assert.Equal(t, "ERR_REQUIRED", verr[0].Code)
	assert.Equal(t, "Please enter a stock ticker", verr[0].Message)

	_, verr = bind(t, "/?symbol=A&horizon=400&day=2020/01/01")
	require.Len(t, verr, 2)
	codes := []string{verr[0].Code, verr[1].Code}
	assert.ElementsMatch(t, []string{"ERR_DATETIME", "ERR_LTE"}, codes)

	_, verr = bind(t, "/?symbol=A&horizon=abc")
	require.Len(t, verr, 1)
	assert.Equal(t, "ERR_BIND", verr[0].Code)
}
