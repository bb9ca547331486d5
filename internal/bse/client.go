package bse

import (
	"context"

	"bseworker/config"
	"bseworker/helpers"
	"bseworker/logger"
	apperrors "bseworker/pkg/errors"
	"bseworker/services/cache"

	"golang.org/x/time/rate"
)

const blockKey = "bse_rate_limited"

// FetchFunc retrieves the raw body for a URL. Injectable for tests.
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// Client resolves announcement metadata against the exchange's three
// surfaces: the rendered detail page, the XBRL filing, and the headline.
type Client struct {
	baseURL string
	apiURL  string
	fetch   FetchFunc
	log     *logger.Logger
}

// NewClient creates a client whose outbound calls share a politeness limiter
// and a memcache block key that suspends fetching after the exchange
// rate-limits us.
func NewClient(cfg config.Config, cacheSvc cache.CacheService) *Client {
	httpClient := helpers.NewHTTPClient(cfg.RequestTimeout)

	var limiter *rate.Limiter
	if cfg.RequestDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.RequestDelay), 1)
	}

	log := logger.ForComponent("bse")

	fetch := func(ctx context.Context, url string) ([]byte, error) {
		if cacheSvc != nil {
			if _, err := cacheSvc.Get(blockKey); err == nil {
				return nil, apperrors.NewRateLimit(url, cfg.BlockTime)
			}
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil, apperrors.NewTransport("fetch", "canceled while waiting for rate limiter", err)
			}
		}

		data, err := helpers.Fetch(ctx, httpClient, url)
		if err != nil && apperrors.IsRateLimit(err) && cacheSvc != nil {
			log.Warn().Str("url", url).Dur("block", cfg.BlockTime).Msg("Exchange rate-limited us, backing off")
			if setErr := cacheSvc.Set(blockKey, []byte("1"), cfg.BlockTime); setErr != nil {
				log.Warn().Err(setErr).Msg("Failed to set rate limit block key")
			}
		}
		return data, err
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiURL:  cfg.APIURL,
		fetch:   fetch,
		log:     log,
	}
}

// NewClientWithFetch creates a client with a custom fetch function
func NewClientWithFetch(baseURL, apiURL string, fetch FetchFunc) *Client {
	return &Client{
		baseURL: baseURL,
		apiURL:  apiURL,
		fetch:   fetch,
		log:     logger.ForComponent("bse"),
	}
}
