package countries

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"countryvote/internal/domain"
	"countryvote/pkg/logger"
)

// Client fetches country reference data from the REST Countries API.
// The upstream payload is heterogeneous (capital as scalar or list,
// 2- and 3-letter codes side by side); Client is the sole place that
// normalizes it into domain.CountryMetadata.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a new REST Countries client
func NewClient(baseURL string, timeout time.Duration, logger *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// countryPayload mirrors the upstream record shape
type countryPayload struct {
	CCA2 string `json:"cca2"`
	CCA3 string `json:"cca3"`
	Name struct {
		Common   string `json:"common"`
		Official string `json:"official"`
	} `json:"name"`
	Capital   capitalField `json:"capital"`
	Region    string       `json:"region"`
	Subregion string       `json:"subregion"`
}

// capitalField accepts either a single string or a list of strings
type capitalField []string

func (c *capitalField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*c = nil
		return nil
	}
	if data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*c = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*c = []string{single}
	return nil
}

// FetchByCode fetches one country by its alpha code. The API answers
// with a single object or a one-element array depending on the code;
// both shapes are accepted.
func (c *Client) FetchByCode(ctx context.Context, code string) (*domain.CountryMetadata, error) {
	url := fmt.Sprintf("%s/alpha/%s", c.baseURL, code)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	var payload countryPayload
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []countryPayload
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("%w: failed to parse country payload: %v", domain.ErrUpstreamUnavailable, err)
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("%w: empty country payload", domain.ErrUpstreamUnavailable)
		}
		payload = list[0]
	} else {
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return nil, fmt.Errorf("%w: failed to parse country payload: %v", domain.ErrUpstreamUnavailable, err)
		}
	}

	return normalize(payload), nil
}

// FetchAll fetches the full reference list. The /all endpoint requires
// an explicit fields parameter on API v3.1.
func (c *Client) FetchAll(ctx context.Context) ([]domain.CountryMetadata, error) {
	url := fmt.Sprintf("%s/all?fields=cca3,cca2,name,capital,region,subregion", c.baseURL)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var payloads []countryPayload
	if err := json.Unmarshal(body, &payloads); err != nil {
		return nil, fmt.Errorf("%w: failed to parse countries payload: %v", domain.ErrUpstreamUnavailable, err)
	}

	result := make([]domain.CountryMetadata, 0, len(payloads))
	for _, p := range payloads {
		result = append(result, *normalize(p))
	}
	return result, nil
}

// get performs a GET request and returns the body. Transport failures
// and non-success statuses both surface as ErrUpstreamUnavailable:
// callers never distinguish "not found" from "unreachable".
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", domain.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(map[string]interface{}{
			"status_code": resp.StatusCode,
			"url":         url,
		}).Warn("Countries API returned non-success status")
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	return body, nil
}

// normalize maps an upstream record to the internal shape. The 3-letter
// code wins over the 2-letter code when both are present; capital
// collapses to its first entry as a nullable string.
func normalize(p countryPayload) *domain.CountryMetadata {
	code := p.CCA3
	if code == "" {
		code = p.CCA2
	}

	meta := &domain.CountryMetadata{
		Code:         code,
		Name:         p.Name.Common,
		OfficialName: p.Name.Official,
	}
	if len(p.Capital) > 0 && p.Capital[0] != "" {
		capital := p.Capital[0]
		meta.Capital = &capital
	}
	if p.Region != "" {
		region := p.Region
		meta.Region = &region
	}
	if p.Subregion != "" {
		subregion := p.Subregion
		meta.Subregion = &subregion
	}
	return meta
}
