// Package download fetches source documents over HTTP.
package download

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	apierrors "github.com/takedah/ash-unofficial-covid19-sub000/internal/errors"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/logger"
)

// Downloader fetches the body of a source document. Any transport failure
// or non-200 response is returned as *errors.DownloadError.
type Downloader interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

type client struct {
	http *resty.Client
	log  *logger.Logger
}

// New creates a Downloader. Requests are not retried.
func New(userAgent string, timeout time.Duration, log *logger.Logger) Downloader {
	rc := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)
	return &client{http: rc, log: log}
}

func (c *client) Get(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		c.log.Error("Download failed", err, map[string]interface{}{
			"url": url,
		})
		return nil, &apierrors.DownloadError{URL: url, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		c.log.Warn("Download returned unexpected status", map[string]interface{}{
			"url":    url,
			"status": resp.StatusCode(),
		})
		return nil, &apierrors.DownloadError{URL: url, StatusCode: resp.StatusCode()}
	}

	c.log.Debug("Downloaded document", map[string]interface{}{
		"url":         url,
		"bytes":       len(resp.Body()),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return resp.Body(), nil
}
