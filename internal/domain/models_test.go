package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerdictForScore(t *testing.T) {
	tests := []struct {
		name    string
		score   int
		verdict Verdict
	}{
		{"zero score is legit", 0, VerdictLegit},
		{"just below suspicious", 30, VerdictLegit},
		{"suspicious lower bound", 31, VerdictSuspicious},
		{"just below phishing", 60, VerdictSuspicious},
		{"phishing lower bound", 61, VerdictPhishing},
		{"maximum attainable score", 140, VerdictPhishing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.verdict, VerdictForScore(tt.score))
		})
	}
}

func TestSeverityForScore(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		severity Severity
	}{
		{"zero score is low", 0, SeverityLow},
		{"just below medium", 30, SeverityLow},
		{"medium lower bound", 31, SeverityMedium},
		{"just below high", 60, SeverityMedium},
		{"high lower bound", 61, SeverityHigh},
		{"just below critical", 80, SeverityHigh},
		{"critical lower bound", 81, SeverityCritical},
		{"maximum attainable score", 140, SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.severity, SeverityForScore(tt.score))
		})
	}
}

// The verdict and severity ladders are thresholded independently and do
// not line up tier-for-tier. A score of 65 is PHISHING yet only HIGH;
// 90 is the same verdict at CRITICAL. That asymmetry is load-bearing.
func TestLaddersAreIndependent(t *testing.T) {
	assert.Equal(t, VerdictPhishing, VerdictForScore(65))
	assert.Equal(t, SeverityHigh, SeverityForScore(65))

	assert.Equal(t, VerdictPhishing, VerdictForScore(90))
	assert.Equal(t, SeverityCritical, SeverityForScore(90))
}
