package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spoorthi4230-pixel/book-worm-desk/util/httpx"
)

type httpClient struct {
	base   string
	apiKey string
	client *http.Client
}

func NewHTTP(baseURL, apiKey string) Client {
	return &httpClient{
		base:   strings.TrimRight(baseURL, "/"),
		apiKey: apiKey,
		client: httpx.Client(),
	}
}

func (c *httpClient) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	endpoint := c.base + "/v1/objects/" + url.PathEscape(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("docstore put failed: %s", resp.Status)
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", errors.New("docstore: empty object url")
	}
	return out.URL, nil
}
