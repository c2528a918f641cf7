package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"stockwatch/internal/alertengine"
)

// searchResponse is the body of POST /api/search.
type searchResponse struct {
	CompanyName string           `json:"company_name"`
	Price       *decimal.Decimal `json:"price"`
	Success     bool             `json:"success"`
	Error       *string          `json:"error"`
}

// detailsResponse is the body of POST /api/stock-details.
type detailsResponse struct {
	CompanyName string           `json:"company_name"`
	Symbol      string           `json:"symbol"`
	Exchange    string           `json:"exchange"`
	Price       *decimal.Decimal `json:"price"`
	High        *decimal.Decimal `json:"high"`
	Low         *decimal.Decimal `json:"low"`
	MarketCap   *decimal.Decimal `json:"market_cap"`
	Description string           `json:"description"`
	Success     bool             `json:"success"`
	Error       *string          `json:"error"`
}

// RemoteClient talks to a price-lookup service exposing POST /api/search and
// POST /api/stock-details (another stockwatch API instance qualifies).
type RemoteClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewRemoteClient creates a client for the lookup service at baseURL.
func NewRemoteClient(baseURL string, httpClient *http.Client, requestsPerSecond float64) *RemoteClient {
	return &RemoteClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		limiter:    newLimiter(requestsPerSecond),
	}
}

// Quote returns the live price for companyName.
func (c *RemoteClient) Quote(ctx context.Context, companyName string) alertengine.PriceQuote {
	var resp searchResponse
	if err := c.post(ctx, "/api/search", companyName, &resp); err != nil {
		return alertengine.FailedQuote(companyName, err)
	}

	q := alertengine.PriceQuote{CompanyName: companyName, Price: deref(resp.Price), Success: resp.Success}
	if resp.Error != nil {
		q.Error = *resp.Error
	}
	if q.Success && !q.Price.IsPositive() {
		q.Success = false
		if q.Error == "" {
			q.Error = fmt.Sprintf("no price for %s", companyName)
		}
	}
	return q
}

// Details returns price and trading-range details for companyName.
func (c *RemoteClient) Details(ctx context.Context, companyName string) (*StockDetails, error) {
	var resp detailsResponse
	if err := c.post(ctx, "/api/stock-details", companyName, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		msg := "lookup failed"
		if resp.Error != nil && *resp.Error != "" {
			msg = *resp.Error
		}
		return nil, fmt.Errorf("details for %q: %s", companyName, msg)
	}

	d := &StockDetails{
		CompanyName: companyName,
		Symbol:      resp.Symbol,
		Exchange:    resp.Exchange,
		Price:       deref(resp.Price),
		High:        deref(resp.High),
		Low:         deref(resp.Low),
		MarketCap:   deref(resp.MarketCap),
		Description: resp.Description,
	}
	return d, nil
}

func deref(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func (c *RemoteClient) post(ctx context.Context, path, companyName string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(map[string]string{"company_name": companyName})
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("looking up %q: %w", companyName, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("looking up %q: unexpected status %d", companyName, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
