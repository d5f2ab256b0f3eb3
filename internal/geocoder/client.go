// Package geocoder предоставляет клиент для внешнего сервиса обратного геокодирования.
package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client инкапсулирует HTTP-взаимодействие с сервисом геокодирования.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Components содержит составные части адреса в ответе сервиса геокодирования.
type Components struct {
	Village       string `json:"village"`
	County        string `json:"county"`
	StateDistrict string `json:"state_district"`
	State         string `json:"state"`
	Postcode      string `json:"postcode"`
}

type geocodeResponse struct {
	Results []struct {
		Components Components `json:"components"`
	} `json:"results"`
}

// NewClient создаёт HTTP-клиент для обращения к сервису геокодирования по указанному адресу.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// ReverseGeocode запрашивает адрес по координатам и возвращает его в виде строки.
func (c *Client) ReverseGeocode(ctx context.Context, lat, long float64) (string, error) {
	if c == nil || c.baseURL == "" {
		return "", fmt.Errorf("geocoder client not configured")
	}

	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}

	query := url.Values{}
	query.Set("q", fmt.Sprintf("%v+%v", lat, long))
	query.Set("key", c.apiKey)

	reqURL := fmt.Sprintf("%s/geocode/v1/json?%s", base, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(result.Results) == 0 {
		return "", fmt.Errorf("empty geocoding result")
	}

	return FormatAddress(result.Results[0].Components), nil
}

// FormatAddress собирает адресную строку из непустых составных частей адреса.
func FormatAddress(c Components) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{c.Village, c.County, c.StateDistrict, c.State} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	address := strings.Join(parts, ", ")
	if c.Postcode != "" {
		address += "\n" + c.Postcode
	}

	return address
}
