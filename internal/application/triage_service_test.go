package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Lizz6780/phishscope-sentinel/internal/domain"
	"github.com/Lizz6780/phishscope-sentinel/internal/ports"
)

// ── test doubles ─────────────────────────────────────────────────────────────

type fakeSource struct {
	messages map[string]*domain.EmailMessage
}

func (f *fakeSource) Load(path string) (*domain.EmailMessage, error) {
	msg, ok := f.messages[path]
	if !ok {
		return nil, fmt.Errorf("parse message %s: malformed", path)
	}
	return msg, nil
}

type fakeURLChecker struct {
	malicious map[string]bool
	fail      bool
	calls     int
}

func (f *fakeURLChecker) CheckURL(ctx context.Context, url string) (domain.URLReputation, error) {
	f.calls++
	if f.fail {
		// Degraded lookup: neutral signal plus an informational error.
		return domain.URLReputation{}, errors.New("virustotal status 503")
	}
	if f.malicious[url] {
		return domain.URLReputation{Malicious: true, Detections: 5}, nil
	}
	return domain.URLReputation{}, nil
}

type fakeIPChecker struct {
	score int
	fail  bool
}

func (f *fakeIPChecker) CheckIP(ctx context.Context, ip string) (int, error) {
	if f.fail {
		return 0, errors.New("abuseipdb timeout")
	}
	return f.score, nil
}

type fakeStorage struct {
	saved []domain.Incident
}

func (f *fakeStorage) SaveIncident(ctx context.Context, incident *domain.Incident) error {
	f.saved = append(f.saved, *incident)
	return nil
}

func (f *fakeStorage) GetIncident(ctx context.Context, id uuid.UUID) (*domain.Incident, error) {
	return nil, nil
}

func (f *fakeStorage) ListIncidents(ctx context.Context, filter ports.IncidentFilter) ([]domain.Incident, error) {
	return f.saved, nil
}

func (f *fakeStorage) UpdateWorkflow(ctx context.Context, id uuid.UUID, status, owner, notes string) error {
	return nil
}

func (f *fakeStorage) CountByVerdict(ctx context.Context) (map[domain.Verdict]int, error) {
	return nil, nil
}

func (f *fakeStorage) Close() error { return nil }

type fakeWriter struct {
	written int
}

func (f *fakeWriter) Write(incident *domain.Incident) (string, error) {
	f.written++
	return fmt.Sprintf("incident_%04d.json", f.written), nil
}

func newService(source *fakeSource, urls *fakeURLChecker, ips *fakeIPChecker, store *fakeStorage) *TriageService {
	return NewTriageService(source, urls, ips, store, &fakeWriter{}, "8.8.8.8", zap.NewNop())
}

// ── tests ────────────────────────────────────────────────────────────────────

func TestProcessEmail_PhishingScenario(t *testing.T) {
	// Failed SPF + failed DKIM + spoofed sender + invoice.exe, no URLs:
	// 15+15+20+35 = 85 -> PHISHING, CRITICAL, attachment technique only.
	source := &fakeSource{messages: map[string]*domain.EmailMessage{
		"bad.eml": {
			Headers: map[string]string{
				"Received-SPF":           "fail",
				"Authentication-Results": "dkim=fail",
				"From":                   "a@x.com",
				"Return-Path":            "b@y.com",
			},
			Body: "pay the attached invoice",
			Parts: []domain.MessagePart{
				{Filename: "invoice.exe", ContentType: "application/octet-stream", Disposition: "attachment"},
			},
		},
	}}
	store := &fakeStorage{}

	service := newService(source, &fakeURLChecker{}, &fakeIPChecker{}, store)
	incident, err := service.ProcessEmail(context.Background(), "bad.eml")
	require.NoError(t, err)

	assert.Equal(t, 85, incident.RiskScore)
	assert.Equal(t, domain.VerdictPhishing, incident.Verdict)
	assert.Equal(t, domain.SeverityCritical, incident.Severity)
	assert.Empty(t, incident.URLs)

	require.Len(t, incident.Mitre, 1)
	assert.Equal(t, "T1566.001", incident.Mitre[0].Technique)

	require.Len(t, store.saved, 1)
	assert.Equal(t, incident.ID, store.saved[0].ID)
	assert.Equal(t, domain.StatusNew, store.saved[0].Status)
	assert.Empty(t, store.saved[0].Owner)
	assert.Empty(t, store.saved[0].Notes)
}

func TestProcessEmail_CleanScenario(t *testing.T) {
	source := &fakeSource{messages: map[string]*domain.EmailMessage{
		"clean.eml": {
			Headers: map[string]string{
				"From":        "alice@example.com",
				"Return-Path": "<alice@example.com>",
			},
			Body: "lunch tomorrow?",
		},
	}}

	service := newService(source, &fakeURLChecker{}, &fakeIPChecker{}, &fakeStorage{})
	incident, err := service.ProcessEmail(context.Background(), "clean.eml")
	require.NoError(t, err)

	assert.Equal(t, 0, incident.RiskScore)
	assert.Equal(t, domain.VerdictLegit, incident.Verdict)
	assert.Equal(t, domain.SeverityLow, incident.Severity)
	assert.Empty(t, incident.Mitre)
	assert.Empty(t, incident.URLs)
}

func TestProcessEmail_MaliciousURL(t *testing.T) {
	source := &fakeSource{messages: map[string]*domain.EmailMessage{
		"link.eml": {
			Headers: map[string]string{},
			Body:    "reset your password at http://evil.example/reset",
		},
	}}
	urls := &fakeURLChecker{malicious: map[string]bool{"http://evil.example/reset": true}}

	service := newService(source, urls, &fakeIPChecker{}, &fakeStorage{})
	incident, err := service.ProcessEmail(context.Background(), "link.eml")
	require.NoError(t, err)

	// Malicious URL contributes 30, not 30+10.
	assert.Equal(t, 30, incident.RiskScore)
	require.Len(t, incident.Mitre, 1)
	assert.Equal(t, "T1566.002", incident.Mitre[0].Technique)
}

func TestProcessEmail_IntelOutageNeverAborts(t *testing.T) {
	source := &fakeSource{messages: map[string]*domain.EmailMessage{
		"msg.eml": {
			Headers: map[string]string{},
			Body:    "see http://a.example and http://b.example",
		},
	}}
	urls := &fakeURLChecker{fail: true}
	ips := &fakeIPChecker{fail: true}

	service := newService(source, urls, ips, &fakeStorage{})
	incident, err := service.ProcessEmail(context.Background(), "msg.eml")
	require.NoError(t, err, "reputation failures must not surface")

	// Both lookups degraded to neutral: only the URL-presence bonus remains.
	assert.Equal(t, 10, incident.RiskScore)
	assert.Equal(t, domain.VerdictLegit, incident.Verdict)
	assert.Equal(t, 2, urls.calls, "every URL is still looked up")
	assert.Empty(t, incident.Mitre)
}

func TestProcessEmail_ParseFailureAborts(t *testing.T) {
	store := &fakeStorage{}
	service := newService(&fakeSource{}, &fakeURLChecker{}, &fakeIPChecker{}, store)

	_, err := service.ProcessEmail(context.Background(), "broken.eml")
	require.Error(t, err)
	assert.Empty(t, store.saved, "no partial incident is ever persisted")
}

func TestProcessEmail_IPAbuseContribution(t *testing.T) {
	source := &fakeSource{messages: map[string]*domain.EmailMessage{
		"msg.eml": {Headers: map[string]string{}, Body: "plain text"},
	}}

	service := newService(source, &fakeURLChecker{}, &fakeIPChecker{score: 95}, &fakeStorage{})
	incident, err := service.ProcessEmail(context.Background(), "msg.eml")
	require.NoError(t, err)

	assert.Equal(t, 25, incident.RiskScore)
}

func TestProcessDirectory_ContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"01_ok.eml", "02_broken.eml", "03_ok.eml", "ignore.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	source := &fakeSource{messages: map[string]*domain.EmailMessage{
		filepath.Join(dir, "01_ok.eml"): {Headers: map[string]string{}, Body: ""},
		filepath.Join(dir, "03_ok.eml"): {Headers: map[string]string{}, Body: ""},
	}}
	store := &fakeStorage{}

	service := newService(source, &fakeURLChecker{}, &fakeIPChecker{}, store)
	result, err := service.ProcessDirectory(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, []string{filepath.Join(dir, "02_broken.eml")}, result.Failed)
	assert.Len(t, store.saved, 2)
}

func TestProcessDirectory_EmptyDirIsAnError(t *testing.T) {
	service := newService(&fakeSource{}, &fakeURLChecker{}, &fakeIPChecker{}, &fakeStorage{})

	_, err := service.ProcessDirectory(context.Background(), t.TempDir())
	assert.Error(t, err)
}
