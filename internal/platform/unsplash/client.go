// Package unsplash implements the media.Finder interface against the
// Unsplash photo search API.
package unsplash

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/flashdeck/flashdeck-api/internal/config"
	"github.com/flashdeck/flashdeck-api/internal/media"
)

const (
	baseURL = "https://api.unsplash.com"

	// defaultTimeout keeps a slow image provider from dragging out card
	// generation; a missing image is an acceptable outcome.
	defaultTimeout = 3 * time.Second
)

// searchResponse mirrors the fields we read from the Unsplash search payload.
type searchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// Client looks up images on Unsplash.
type Client struct {
	httpClient *resty.Client
	logger     *slog.Logger
}

// Verify interface compliance at compile time
var _ media.Finder = (*Client)(nil)

// NewClient creates an Unsplash-backed image finder.
func NewClient(logger *slog.Logger, cfg config.MediaConfig) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.UnsplashAccessKey == "" {
		return nil, errors.New("unsplash access key cannot be empty")
	}

	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Authorization", "Client-ID "+cfg.UnsplashAccessKey)

	return &Client{
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "unsplash_client")),
	}, nil
}

// FindImage implements media.Finder. Any provider failure is logged and
// reported as no image found.
func (c *Client) FindImage(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":       query,
			"per_page":    "1",
			"orientation": "landscape",
		}).
		SetResult(&searchResponse{}).
		Get("/search/photos")
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		c.logger.Debug("image search failed",
			slog.String("query", query),
			slog.String("error", err.Error()))
		return "", nil
	}
	if resp.IsError() {
		c.logger.Debug("image search returned an error status",
			slog.String("query", query),
			slog.Int("status", resp.StatusCode()))
		return "", nil
	}

	result, ok := resp.Result().(*searchResponse)
	if !ok || len(result.Results) == 0 {
		return "", nil
	}
	return result.Results[0].URLs.Regular, nil
}
