package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Lizz6780/phishscope-sentinel/internal/domain"
	"github.com/Lizz6780/phishscope-sentinel/internal/domain/analysis"
	"github.com/Lizz6780/phishscope-sentinel/internal/metrics"
	"github.com/Lizz6780/phishscope-sentinel/internal/ports"
)

// TriageService orchestrates the detection pipeline: parse, analyze,
// enrich with reputation intel, score, classify, map techniques, persist.
type TriageService struct {
	source   ports.MessageSource
	urls     ports.URLChecker
	ips      ports.IPChecker
	storage  ports.Storage
	reports  ports.ReportWriter
	senderIP string
	logger   *zap.Logger
}

// NewTriageService creates a triage service with dependency injection.
// senderIP is the address used for the abuse lookup; originating-IP
// extraction from Received headers is not implemented, so this is a
// configured placeholder rather than a per-message value.
func NewTriageService(
	source ports.MessageSource,
	urls ports.URLChecker,
	ips ports.IPChecker,
	storage ports.Storage,
	reports ports.ReportWriter,
	senderIP string,
	logger *zap.Logger,
) *TriageService {
	return &TriageService{
		source:   source,
		urls:     urls,
		ips:      ips,
		storage:  storage,
		reports:  reports,
		senderIP: senderIP,
		logger:   logger,
	}
}

// ProcessEmail runs the full pipeline for one message and returns the
// persisted incident.
//
// Error contract:
//   - A parse failure aborts this message and is returned to the caller.
//   - Reputation lookup failures never abort: they degrade to neutral
//     signals (not malicious, abuse score 0) and the run completes.
//   - Everything downstream of a successful parse is total.
func (s *TriageService) ProcessEmail(ctx context.Context, path string) (*domain.Incident, error) {
	start := time.Now()

	msg, err := s.source.Load(path)
	if err != nil {
		metrics.EmailsFailed.Inc()
		return nil, fmt.Errorf("load email: %w", err)
	}

	headerFindings := analysis.AnalyzeHeaders(msg.Headers)
	urls := analysis.ExtractURLs(msg.Body)
	if urls == nil {
		urls = []string{}
	}
	attachments := analysis.AnalyzeAttachments(msg.Parts)

	urlMalicious := false
	for _, u := range urls {
		rep, err := s.urls.CheckURL(ctx, u)
		if err != nil {
			metrics.IntelFailures.WithLabelValues("virustotal").Inc()
		}
		if rep.Malicious {
			urlMalicious = true
		}
	}

	ipScore, err := s.ips.CheckIP(ctx, s.senderIP)
	if err != nil {
		metrics.IntelFailures.WithLabelValues("abuseipdb").Inc()
	}

	findings := domain.Findings{
		HeaderFindings:       headerFindings,
		URLs:                 urls,
		URLMalicious:         urlMalicious,
		IPAbuseScore:         ipScore,
		AttachmentSuspicious: analysis.AnySuspicious(attachments),
	}

	risk := analysis.CalculateRisk(findings)
	now := time.Now().UTC()

	incident := &domain.Incident{
		ID:          uuid.New(),
		SourceEmail: path,
		Verdict:     domain.VerdictForScore(risk),
		Severity:    domain.SeverityForScore(risk),
		RiskScore:   risk,
		URLs:        urls,
		Attachments: attachments,
		Mitre:       analysis.MapToMitre(findings, attachments),
		Timestamp:   now.Format(time.RFC3339),
		Status:      domain.StatusNew,
		Owner:       "",
		Notes:       "",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	fileName, err := s.reports.Write(incident)
	if err != nil {
		return nil, fmt.Errorf("write incident report: %w", err)
	}
	incident.FileName = fileName

	if err := s.storage.SaveIncident(ctx, incident); err != nil {
		return nil, fmt.Errorf("save incident: %w", err)
	}

	metrics.EmailsProcessed.WithLabelValues(string(incident.Verdict)).Inc()
	metrics.PipelineDuration.Observe(time.Since(start).Seconds())

	s.logger.Info("email triaged",
		zap.String("source", path),
		zap.String("verdict", string(incident.Verdict)),
		zap.String("severity", string(incident.Severity)),
		zap.Int("risk_score", risk),
		zap.Int("urls", len(urls)),
		zap.Int("attachments", len(attachments)),
	)

	if incident.Verdict == domain.VerdictPhishing {
		s.logger.Warn("phishing detected",
			zap.String("source", path),
			zap.String("from", headerFindings.From),
			zap.Int("risk_score", risk),
			zap.Int("techniques", len(incident.Mitre)),
		)
	}

	return incident, nil
}

// BatchResult summarizes one batch run over a directory of messages.
type BatchResult struct {
	Processed int
	Failed    []string
}

// ProcessDirectory triages every .eml file under dir in lexical order.
// Per-message failures are logged and collected; they never abort the
// batch. Each message's run is fully independent of the others.
func (s *TriageService) ProcessDirectory(ctx context.Context, dir string) (BatchResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return BatchResult{}, fmt.Errorf("read email directory: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".eml") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return BatchResult{}, fmt.Errorf("no .eml files found in %s", dir)
	}

	result := BatchResult{}
	for _, path := range paths {
		if _, err := s.ProcessEmail(ctx, path); err != nil {
			s.logger.Error("failed to process email, continuing batch",
				zap.String("source", path), zap.Error(err))
			result.Failed = append(result.Failed, path)
			continue
		}
		result.Processed++
	}

	return result, nil
}
