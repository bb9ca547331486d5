package helpers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"time"

	apperrors "bseworker/pkg/errors"

	"golang.org/x/net/html/charset"
)

var browserHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
}

// NewHTTPClient returns an HTTP client with the given timeout and a redirect cap
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}
}

// Fetch sends an HTTP GET request with browser-like headers, converts the
// response body to UTF-8 (if needed), and returns it. Non-2xx statuses come
// back as typed transport errors; 429/430 as rate limit errors.
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.NewTransport("fetch", "failed to create request", err)
	}

	for key, value := range browserHeaders {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, apperrors.NewTransport("fetch", "failed to fetch "+url, err)
	}
	defer resp.Body.Close()

	// BSE answers 430 as well as 429 when throttling
	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode) {
		return nil, apperrors.NewRateLimit(url, 0)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewTransport("fetch", fmt.Sprintf("unexpected status code %d for %s", resp.StatusCode, url), nil)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewTransport("fetch", "failed to read response body", err)
	}

	// Determine the encoding from Content-Type header and body content
	encoding, name, _ := charset.DetermineEncoding(bodyBytes, resp.Header.Get("Content-Type"))
	if name == "utf-8" || name == "UTF-8" {
		return bodyBytes, nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return nil, apperrors.NewTransport("fetch", "failed to convert body to UTF-8", err)
	}

	return buf.Bytes(), nil
}
