// Package imagesearch proxies the visualization step's image queries to an
// Unsplash-compatible search endpoint.
package imagesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
)

type Image struct {
	URL          string `json:"url"`
	ThumbURL     string `json:"thumb_url"`
	Description  string `json:"description"`
	Photographer string `json:"photographer"`
}

type Client interface {
	Search(ctx context.Context, query string, perPage int) ([]Image, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	accessKey  string
	httpClient *http.Client
}

func NewClient(baseLog *logger.Logger) (Client, error) {
	accessKey := os.Getenv("UNSPLASH_ACCESS_KEY")
	if accessKey == "" {
		return nil, fmt.Errorf("missing UNSPLASH_ACCESS_KEY")
	}
	baseURL := os.Getenv("UNSPLASH_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.unsplash.com"
	}
	return &client{
		log:        baseLog.With("client", "ImageSearchClient"),
		baseURL:    baseURL,
		accessKey:  accessKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type searchResponse struct {
	Results []struct {
		Description    string `json:"description"`
		AltDescription string `json:"alt_description"`
		URLs           struct {
			Regular string `json:"regular"`
			Thumb   string `json:"thumb"`
		} `json:"urls"`
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	} `json:"results"`
}

func (c *client) Search(ctx context.Context, query string, perPage int) ([]Image, error) {
	if perPage <= 0 || perPage > 30 {
		perPage = 12
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", strconv.Itoa(perPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search/photos?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image search http %d: %s", resp.StatusCode, raw)
	}

	var parsed searchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("image search decode: %w", err)
	}

	out := make([]Image, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		desc := r.Description
		if desc == "" {
			desc = r.AltDescription
		}
		out = append(out, Image{
			URL:          r.URLs.Regular,
			ThumbURL:     r.URLs.Thumb,
			Description:  desc,
			Photographer: r.User.Name,
		})
	}
	return out, nil
}
