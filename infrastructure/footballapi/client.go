package footballapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"footycards/domain/entities"

	log "github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

var (
	// ErrNotConfigured is returned when the API URL or key is missing
	ErrNotConfigured = errors.New("football API not configured")
	// ErrRateLimited is returned on HTTP 429
	ErrRateLimited = errors.New("football API rate limit exceeded")
)

// Config holds the RapidAPI connection settings
type Config struct {
	BaseURL string
	APIKey  string
	Host    string
	Leagues []int
	Season  int
	Timeout time.Duration
}

// Client fetches top scorers from an api-football compatible endpoint
type Client struct {
	config Config
	client *fasthttp.Client

	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

// RateLimitInfo is the quota reported by the last response
type RateLimitInfo struct {
	Limit     int
	Remaining int
	UpdatedAt time.Time
}

// NewClient creates a client. Requests fail with ErrNotConfigured until
// both BaseURL and APIKey are set.
func NewClient(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &Client{
		config: config,
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         config.Timeout,
			WriteTimeout:        config.Timeout,
			MaxIdleConnDuration: time.Minute,
		},
	}
}

// Name implements PlayerStatsProvider
func (c *Client) Name() string {
	return "football-api"
}

// Configured reports whether the client has credentials
func (c *Client) Configured() bool {
	return c.config.BaseURL != "" && c.config.APIKey != ""
}

// GetRateLimitInfo returns the last seen quota
func (c *Client) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

// FetchTopPlayers returns the top scorers of every configured league.
// A league that fails is skipped; the call fails only when none succeed.
func (c *Client) FetchTopPlayers(ctx context.Context) ([]entities.PlayerStat, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if len(c.config.Leagues) == 0 {
		return nil, fmt.Errorf("%w: no leagues", ErrNotConfigured)
	}

	var (
		stats   []entities.PlayerStat
		lastErr error
		loaded  int
	)
	for _, league := range c.config.Leagues {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := c.topScorers(ctx, league)
		if err != nil {
			log.WithFields(log.Fields{
				"league": league,
				"season": c.config.Season,
				"error":  err,
			}).Warn("Failed to fetch top scorers")
			lastErr = err
			// the quota is shared across leagues
			if errors.Is(err, ErrRateLimited) {
				break
			}
			continue
		}
		loaded++
		stats = append(stats, resp.toPlayerStats()...)
	}

	if loaded == 0 {
		return nil, fmt.Errorf("failed to fetch any league: %w", lastErr)
	}
	return stats, nil
}

func (c *Client) topScorers(ctx context.Context, league int) (*TopScorersResponse, error) {
	query := url.Values{}
	query.Set("league", strconv.Itoa(league))
	query.Set("season", strconv.Itoa(c.config.Season))
	uri := strings.TrimRight(c.config.BaseURL, "/") + "/players/topscorers?" + query.Encode()
	return doRequest[TopScorersResponse](ctx, c, uri)
}

func (c *Client) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if limit := string(resp.Header.Peek("X-RateLimit-Requests-Limit")); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			c.rateLimit.Limit = val
		}
	}
	if remaining := string(resp.Header.Peek("X-RateLimit-Requests-Remaining")); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			c.rateLimit.Remaining = val
		}
	}
	c.rateLimit.UpdatedAt = time.Now()
}

func doRequest[T any](ctx context.Context, c *Client, uri string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("X-RapidAPI-Key", c.config.APIKey)
	if c.config.Host != "" {
		req.Header.Set("X-RapidAPI-Host", c.config.Host)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.config.Timeout)
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	c.updateRateLimit(resp)

	switch resp.StatusCode() {
	case fasthttp.StatusOK:
	case fasthttp.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, fmt.Errorf("API error: %d", resp.StatusCode())
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}
