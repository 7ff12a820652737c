// Package dashapi provides the HTTP data provider: a client for the quantdash API server.
package dashapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/quantdash/internal/common"
	"github.com/bobmcallan/quantdash/internal/interfaces"
	"github.com/bobmcallan/quantdash/internal/models"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client implements interfaces.DataProvider, interfaces.Authenticator and
// interfaces.CredentialSink over HTTP.
type Client struct {
	http    *resty.Client
	logger  *common.Logger
	limiter *rate.Limiter

	mu     sync.RWMutex
	bearer string
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.http.SetTimeout(timeout)
	}
}

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.http.SetTransport(rt)
	}
}

// NewClient creates a client for the API server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = common.DefaultAPIBaseURL
	}
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(DefaultTimeout).
			SetHeader("Accept", "application/json").
			SetHeader("Content-Type", "application/json"),
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.http.SetLogger(restyLogger{c.logger})
	c.http.OnBeforeRequest(c.attachCredential)
	return c
}

// NewClientFromConfig builds a client from the [api] config section.
func NewClientFromConfig(cfg common.APIConfig, logger *common.Logger) *Client {
	return NewClient(cfg.BaseURL,
		WithLogger(logger),
		WithRateLimit(cfg.RateLimit),
		WithTimeout(cfg.GetTimeout()),
	)
}

// SetBearer arms the Authorization header for subsequent requests.
func (c *Client) SetBearer(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bearer = token
}

// ClearBearer removes the Authorization header from subsequent requests.
func (c *Client) ClearBearer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bearer = ""
}

// attachCredential runs before every request.
func (c *Client) attachCredential(_ *resty.Client, r *resty.Request) error {
	c.mu.RLock()
	token := c.bearer
	c.mu.RUnlock()

	if token == "" {
		r.Header.Del("Authorization")
		return nil
	}
	r.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("quantdash API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// errorBody is the server's error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// do performs a rate-limited request and decodes the JSON response into result.
func (c *Client) do(ctx context.Context, method, path string, build func(*resty.Request), result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var apiErr errorBody
	req := c.http.R().
		SetContext(ctx).
		SetResult(result).
		SetError(&apiErr)
	if build != nil {
		build(req)
	}

	c.logger.Debug().Str("method", method).Str("path", path).Msg("quantdash API request")

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.IsError() {
		msg := apiErr.Error
		if msg == "" {
			msg = resp.Status()
		}
		return &APIError{
			StatusCode: resp.StatusCode(),
			Message:    msg,
			Endpoint:   path,
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, build func(*resty.Request), result interface{}) error {
	return c.do(ctx, http.MethodGet, path, build, result)
}

// MarketSummary fetches the market overview for timeRange.
func (c *Client) MarketSummary(ctx context.Context, timeRange string) (*models.MarketSummary, error) {
	var out models.MarketSummary
	err := c.get(ctx, "/api/market-data/summary", func(r *resty.Request) {
		if timeRange != "" {
			r.SetQueryParam("range", timeRange)
		}
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// PortfolioSummary fetches the portfolio summary.
func (c *Client) PortfolioSummary(ctx context.Context) (*models.PortfolioSummary, error) {
	var out models.PortfolioSummary
	if err := c.get(ctx, "/api/portfolio/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StockData fetches the quote for symbol.
func (c *Client) StockData(ctx context.Context, symbol string) (*models.StockQuote, error) {
	var out models.StockQuote
	err := c.get(ctx, "/api/market-data/stock/{symbol}", func(r *resty.Request) {
		r.SetPathParam("symbol", symbol)
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// HistoricalData fetches daily bars for symbol.
func (c *Client) HistoricalData(ctx context.Context, symbol, period, interval string) ([]models.HistoricalBar, error) {
	var out []models.HistoricalBar
	err := c.get(ctx, "/api/market-data/historical/{symbol}", func(r *resty.Request) {
		r.SetPathParam("symbol", symbol)
		if period != "" {
			r.SetQueryParam("period", period)
		}
		if interval != "" {
			r.SetQueryParam("interval", interval)
		}
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Recommendations fetches the buy/sell/hold lists.
func (c *Client) Recommendations(ctx context.Context) (*models.Recommendations, error) {
	var out models.Recommendations
	if err := c.get(ctx, "/api/portfolio/recommendations", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PortfolioAnalysis fetches the analysis for portfolioID.
func (c *Client) PortfolioAnalysis(ctx context.Context, portfolioID int) (*models.PortfolioAnalysis, error) {
	var out models.PortfolioAnalysis
	err := c.get(ctx, "/api/portfolio/{id}/analysis", func(r *resty.Request) {
		r.SetPathParam("id", strconv.Itoa(portfolioID))
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SectorPerformance fetches sector name to performance percent.
func (c *Client) SectorPerformance(ctx context.Context) (map[string]float64, error) {
	out := make(map[string]float64)
	if err := c.get(ctx, "/api/market-data/sector-performance", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type loginRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session. A 401 maps to ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/login", loginRequest{Email: email, Password: password})
}

// Register creates an account. A 401 maps to ErrInvalidCredentials.
func (c *Client) Register(ctx context.Context, name, email, password string) (*models.AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/register", loginRequest{Name: name, Email: email, Password: password})
}

func (c *Client) authenticate(ctx context.Context, path string, body loginRequest) (*models.AuthResult, error) {
	var out models.AuthResult
	err := c.do(ctx, http.MethodPost, path, func(r *resty.Request) {
		r.SetBody(body)
	}, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%s: %w", apiErr.Message, interfaces.ErrInvalidCredentials)
		}
		return nil, err
	}
	return &out, nil
}

// ValidateToken asks the server who the current bearer credential belongs to.
func (c *Client) ValidateToken(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.get(ctx, "/api/auth/validate", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// restyLogger routes resty's own diagnostics through the application logger.
type restyLogger struct {
	logger *common.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error().Msgf(format, v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn().Msgf(format, v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(format, v...)
}
