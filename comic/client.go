// Package comic talks to the xkcd JSON API.
package comic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"
)

const DefaultBaseURL = "https://xkcd.com"

var (
	ErrSource = errors.New("comic source error")

	json = jsoniter.ConfigCompatibleWithStandardLibrary
)

type info struct {
	Num int    `json:"num"`
	Img string `json:"img"`
}

type Client struct {
	BaseURL   string
	UserAgent string
	HTTP      *http.Client
}

func NewClient(baseURL, userAgent string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:   strings.TrimSuffix(baseURL, "/"),
		UserAgent: userAgent,
		HTTP:      http.DefaultClient,
	}
}

// Latest returns the number of the most recent comic.
func (c *Client) Latest(ctx context.Context) (int, error) {
	var meta info
	if err := c.getJSON(ctx, c.BaseURL+"/info.0.json", &meta); err != nil {
		return 0, err
	}
	if meta.Num < 1 {
		return 0, fmt.Errorf("%w: invalid latest comic number %d", ErrSource, meta.Num)
	}
	return meta.Num, nil
}

// Image returns the raw encoded image of comic n.
func (c *Client) Image(ctx context.Context, n int) ([]byte, error) {
	var meta info
	if err := c.getJSON(ctx, fmt.Sprintf("%s/%d/info.0.json", c.BaseURL, n), &meta); err != nil {
		return nil, err
	}
	if meta.Img == "" {
		return nil, fmt.Errorf("%w: comic %d has no image url", ErrSource, n)
	}

	body, err := c.get(ctx, meta.Img)
	if err != nil {
		return nil, err
	}
	defer closeBody(body, meta.Img)

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: could not read image %q: %w", ErrSource, meta.Img, err)
	}
	slog.Debug("downloaded comic", "index", n, "url", meta.Img, "size", humanize.Bytes(uint64(len(data))))
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer closeBody(body, url)

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("%w: could not parse %q: %w", ErrSource, url, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid url %q: %w", ErrSource, url, err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: could not reach %q: %w", ErrSource, url, err)
	}

	if resp.StatusCode/100 != 2 {
		closeBody(resp.Body, url)
		return nil, fmt.Errorf("%w: %q answered %s", ErrSource, url, resp.Status)
	}
	return resp.Body, nil
}

func closeBody(body io.Closer, url string) {
	if err := body.Close(); err != nil {
		slog.Error("could not close response body", "url", url, "error", err)
	}
}
