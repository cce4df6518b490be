package crawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Client fetches a single listing page and decodes it to UTF-8.
type Client struct {
	httpClient *http.Client
	userAgent  string
	encoding   string
}

// NewClient creates a client. pageEncoding is the charset assumed for the page
// ("gbk" for ZOL); an empty value or "auto" relies on detection only.
func NewClient(userAgent string, timeout time.Duration, pageEncoding string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		encoding:   strings.ToLower(strings.TrimSpace(pageEncoding)),
	}
}

// Fetch issues one GET and returns the decoded body. There are no retries.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body from %s: %w", url, err)
	}

	return c.decode(body, resp.Header.Get("Content-Type"))
}

// decode tries the configured encoding first and falls back to detection
// when that encoding is unknown or produces replacement characters.
func (c *Client) decode(body []byte, contentType string) (string, error) {
	if c.encoding != "" && c.encoding != "auto" {
		if enc, err := htmlindex.Get(c.encoding); err == nil {
			if text, ok := decodeStrict(enc, body); ok {
				return text, nil
			}
		}
	}

	enc, _, _ := charset.DetermineEncoding(body, contentType)
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", fmt.Errorf("failed to decode body: %w", err)
	}
	return string(out), nil
}

func decodeStrict(enc encoding.Encoding, body []byte) (string, bool) {
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", false
	}
	if bytes.ContainsRune(out, utf8.RuneError) && !bytes.ContainsRune(body, utf8.RuneError) {
		return "", false
	}
	return string(out), true
}
