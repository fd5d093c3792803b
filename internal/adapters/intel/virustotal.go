// Package intel implements the reputation collaborators. Every client in
// this package shares one failure contract: a transport error, a timeout
// or a non-200 response degrades to the neutral zero signal so that an
// intel outage can never abort a triage run.
package intel

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Lizz6780/phishscope-sentinel/internal/domain"
)

const virusTotalBaseURL = "https://www.virustotal.com/api/v3"

// DefaultTimeout bounds every reputation lookup. The pipeline is
// synchronous, so a hung lookup would hang the whole run.
const DefaultTimeout = 10 * time.Second

// VirusTotalClient checks URL reputation against the VirusTotal v3 API.
// The API key is injected at construction; there is no process-wide state.
type VirusTotalClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewVirusTotalClient creates a VirusTotal URL checker. Requests are
// paced to the public-API quota of 4 lookups per minute.
func NewVirusTotalClient(apiKey string, timeout time.Duration, logger *zap.Logger) *VirusTotalClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &VirusTotalClient{
		apiKey:  apiKey,
		baseURL: virusTotalBaseURL,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(15*time.Second), 4),
		logger:  logger,
	}
}

// vtResponse mirrors the fields we consume from the VirusTotal report.
type vtResponse struct {
	Data struct {
		Attributes struct {
			LastAnalysisStats struct {
				Malicious int `json:"malicious"`
			} `json:"last_analysis_stats"`
		} `json:"attributes"`
	} `json:"data"`
}

// CheckURL fetches the latest analysis stats for one URL. VirusTotal
// addresses URL reports by the unpadded url-safe base64 of the URL itself.
func (c *VirusTotalClient) CheckURL(ctx context.Context, url string) (domain.URLReputation, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.URLReputation{}, fmt.Errorf("virustotal rate wait: %w", err)
	}

	urlID := base64.RawURLEncoding.EncodeToString([]byte(url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/urls/"+urlID, nil)
	if err != nil {
		return domain.URLReputation{}, fmt.Errorf("virustotal request: %w", err)
	}
	req.Header.Set("x-apikey", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("virustotal lookup failed, using neutral signal",
			zap.String("url", url), zap.Error(err))
		return domain.URLReputation{}, fmt.Errorf("virustotal lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("virustotal returned non-200, using neutral signal",
			zap.String("url", url), zap.Int("status", resp.StatusCode))
		return domain.URLReputation{}, fmt.Errorf("virustotal status %d", resp.StatusCode)
	}

	var body vtResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.URLReputation{}, fmt.Errorf("virustotal decode: %w", err)
	}

	detections := body.Data.Attributes.LastAnalysisStats.Malicious
	return domain.URLReputation{
		Malicious:  detections > 0,
		Detections: detections,
	}, nil
}
