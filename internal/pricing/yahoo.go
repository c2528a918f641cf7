package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"stockwatch/internal/alertengine"
)

const (
	yahooBaseURL     = "https://query1.finance.yahoo.com"
	yahooUA          = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"
	DefaultRateLimit = 2 // requests per second
)

// exchangeSuffixes maps exchange codes to Yahoo Finance ticker suffixes.
var exchangeSuffixes = map[string]string{
	"NSE": ".NS",
	"BSE": ".BO",
}

// yahooSearchResponse is the Yahoo Finance symbol search response.
type yahooSearchResponse struct {
	Quotes []yahooSearchQuote `json:"quotes"`
}

type yahooSearchQuote struct {
	Symbol    string `json:"symbol"`
	ShortName string `json:"shortname"`
	LongName  string `json:"longname"`
	QuoteType string `json:"quoteType"`
	Sector    string `json:"sector"`
	Industry  string `json:"industry"`
}

// yahooChartMeta carries the quote fields of a v8 chart response.
type yahooChartMeta struct {
	Symbol             string  `json:"symbol"`
	LongName           string  `json:"longName"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	FiftyTwoWeekHigh   float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow    float64 `json:"fiftyTwoWeekLow"`
	MarketCap          float64 `json:"marketCap"`
}

// yahooChartResponse is the top-level v8 chart response.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta yahooChartMeta `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// listing is a resolved NSE/BSE ticker for a company name.
type listing struct {
	symbol      string // without exchange suffix
	exchange    string
	ticker      string // Yahoo ticker, e.g. TATASTEEL.NS
	description string
}

// YahooProvider looks up Indian listings on Yahoo Finance by company name.
type YahooProvider struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	limiter    *rate.Limiter
	logger     *zap.SugaredLogger

	mu       sync.RWMutex
	listings map[string]listing
}

// YahooOption configures a YahooProvider.
type YahooOption func(*YahooProvider)

// WithBaseURL points the provider at a different host.
func WithBaseURL(baseURL string) YahooOption {
	return func(p *YahooProvider) {
		p.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(requestsPerSecond float64) YahooOption {
	return func(p *YahooProvider) {
		p.limiter = newLimiter(requestsPerSecond)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.SugaredLogger) YahooOption {
	return func(p *YahooProvider) {
		p.logger = logger
	}
}

// NewYahooProvider creates a new Yahoo Finance price source.
func NewYahooProvider(httpClient *http.Client, opts ...YahooOption) *YahooProvider {
	p := &YahooProvider{
		httpClient: httpClient,
		baseURL:    yahooBaseURL,
		limiter:    newLimiter(DefaultRateLimit),
		logger:     zap.NewNop().Sugar(),
		listings:   make(map[string]listing),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func newLimiter(requestsPerSecond float64) *rate.Limiter {
	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// Name returns the provider's display name.
func (p *YahooProvider) Name() string { return "Yahoo Finance" }

// Quote returns the live price for companyName.
func (p *YahooProvider) Quote(ctx context.Context, companyName string) alertengine.PriceQuote {
	details, err := p.Details(ctx, companyName)
	if err != nil {
		p.logger.Warnw("quote failed", "company", companyName, "error", err)
		return alertengine.FailedQuote(companyName, err)
	}
	return details.Quote(companyName)
}

// Details resolves companyName to an NSE (preferred) or BSE listing and
// returns its price and 52-week range.
func (p *YahooProvider) Details(ctx context.Context, companyName string) (*StockDetails, error) {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return nil, fmt.Errorf("company name is required")
	}

	l, err := p.resolve(ctx, companyName)
	if err != nil {
		return nil, err
	}

	meta, err := p.chart(ctx, l.ticker)
	if err != nil {
		return nil, err
	}
	if meta.RegularMarketPrice <= 0 {
		return nil, fmt.Errorf("zero price for %s", l.ticker)
	}

	return &StockDetails{
		CompanyName: companyName,
		Symbol:      l.symbol,
		Exchange:    l.exchange,
		Price:       decimal.NewFromFloat(meta.RegularMarketPrice),
		High:        decimal.NewFromFloat(meta.FiftyTwoWeekHigh),
		Low:         decimal.NewFromFloat(meta.FiftyTwoWeekLow),
		MarketCap:   decimal.NewFromFloat(meta.MarketCap),
		Description: l.description,
	}, nil
}

// resolve maps a company name to a ticker, caching the result.
func (p *YahooProvider) resolve(ctx context.Context, companyName string) (listing, error) {
	key := strings.ToLower(companyName)
	p.mu.RLock()
	l, ok := p.listings[key]
	p.mu.RUnlock()
	if ok {
		return l, nil
	}

	params := url.Values{}
	params.Set("q", companyName)
	params.Set("quotesCount", "10")
	params.Set("newsCount", "0")

	var resp yahooSearchResponse
	if err := p.get(ctx, "/v1/finance/search", params, &resp); err != nil {
		return listing{}, fmt.Errorf("searching %q: %w", companyName, err)
	}

	l, ok = pickListing(resp.Quotes)
	if !ok {
		return listing{}, fmt.Errorf("%q: %w", companyName, ErrCompanyNotFound)
	}

	p.mu.Lock()
	p.listings[key] = l
	p.mu.Unlock()
	return l, nil
}

// pickListing returns the first NSE equity, falling back to the first BSE equity.
func pickListing(quotes []yahooSearchQuote) (listing, bool) {
	for _, exchange := range []string{"NSE", "BSE"} {
		suffix := exchangeSuffixes[exchange]
		for _, q := range quotes {
			if q.QuoteType != "" && q.QuoteType != "EQUITY" {
				continue
			}
			if !strings.HasSuffix(q.Symbol, suffix) {
				continue
			}
			return listing{
				symbol:      strings.TrimSuffix(q.Symbol, suffix),
				exchange:    exchange,
				ticker:      q.Symbol,
				description: describe(q),
			}, true
		}
	}
	return listing{}, false
}

func describe(q yahooSearchQuote) string {
	name := q.LongName
	if name == "" {
		name = q.ShortName
	}
	switch {
	case q.Sector != "" && q.Industry != "":
		return fmt.Sprintf("%s: %s / %s", name, q.Sector, q.Industry)
	case q.Sector != "":
		return fmt.Sprintf("%s: %s", name, q.Sector)
	default:
		return name
	}
}

// chart fetches the v8 chart metadata for a ticker.
func (p *YahooProvider) chart(ctx context.Context, ticker string) (*yahooChartMeta, error) {
	params := url.Values{}
	params.Set("range", "1d")
	params.Set("interval", "1d")

	var resp yahooChartResponse
	if err := p.get(ctx, "/v8/finance/chart/"+url.PathEscape(ticker), params, &resp); err != nil {
		return nil, fmt.Errorf("chart %s: %w", ticker, err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart %s: %s", ticker, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart %s: empty result", ticker)
	}
	return &resp.Chart.Result[0].Meta, nil
}

// get performs a rate-limited GET request and decodes the JSON body.
func (p *YahooProvider) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := p.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", yahooUA)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
