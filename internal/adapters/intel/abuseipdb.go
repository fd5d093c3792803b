package intel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const abuseIPDBBaseURL = "https://api.abuseipdb.com/api/v2"

// AbuseIPDBClient checks sender IPs against the AbuseIPDB confidence
// database. Scores range 0-100; the risk engine only reacts above 80.
type AbuseIPDBClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewAbuseIPDBClient creates an AbuseIPDB IP checker with the key
// injected at construction.
func NewAbuseIPDBClient(apiKey string, timeout time.Duration, logger *zap.Logger) *AbuseIPDBClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &AbuseIPDBClient{
		apiKey:  apiKey,
		baseURL: abuseIPDBBaseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type abuseIPDBResponse struct {
	Data struct {
		AbuseConfidenceScore int `json:"abuseConfidenceScore"`
	} `json:"data"`
}

// CheckIP returns the abuse-confidence score for one IP, looking back 90
// days of reports.
func (c *AbuseIPDBClient) CheckIP(ctx context.Context, ip string) (int, error) {
	params := url.Values{}
	params.Set("ipAddress", ip)
	params.Set("maxAgeInDays", "90")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/check?"+params.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("abuseipdb request: %w", err)
	}
	req.Header.Set("Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("abuseipdb lookup failed, using neutral signal",
			zap.String("ip", ip), zap.Error(err))
		return 0, fmt.Errorf("abuseipdb lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("abuseipdb returned non-200, using neutral signal",
			zap.String("ip", ip), zap.Int("status", resp.StatusCode))
		return 0, fmt.Errorf("abuseipdb status %d", resp.StatusCode)
	}

	var body abuseIPDBResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("abuseipdb decode: %w", err)
	}

	return body.Data.AbuseConfidenceScore, nil
}
