package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/theunseenchapter/constructai-sub000/pricing"
	"github.com/theunseenchapter/constructai-sub000/utils"
)

// HTTPPriceFeed quotes materials from an external market API.
// GET {base}/quotes/{code} is expected to answer {"code": "...", "price": "441.00", "currency": "INR"}.
type HTTPPriceFeed struct {
	baseURL string
	client  *resty.Client
}

type quoteResponse struct {
	Code     string          `json:"code"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
}

func NewHTTPPriceFeed(baseURL, apiKey string, timeout time.Duration) *HTTPPriceFeed {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetHeader("X-API-Key", apiKey)
	}

	return &HTTPPriceFeed{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (f *HTTPPriceFeed) Name() string { return "http_market" }

func (f *HTTPPriceFeed) Fetch(ctx context.Context, rate pricing.MaterialRate) (decimal.Decimal, error) {
	endpoint := f.baseURL + "/quotes/" + url.PathEscape(rate.Code)

	resp, err := f.client.R().SetContext(ctx).Get(endpoint)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", pricing.ErrFeedUnavailable, rate.Code, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: %s: status %d", pricing.ErrFeedUnavailable, rate.Code, resp.StatusCode())
	}

	var out quoteResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", pricing.ErrFeedUnavailable, rate.Code, err)
	}
	if out.Currency != "" && !strings.EqualFold(out.Currency, utils.CurrencyINR) {
		return decimal.Zero, fmt.Errorf("%w: %s: unexpected currency %s", pricing.ErrFeedUnavailable, rate.Code, out.Currency)
	}
	if !out.Price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s: non-positive quote %s", pricing.ErrFeedUnavailable, rate.Code, out.Price)
	}
	return out.Price.Round(2), nil
}
