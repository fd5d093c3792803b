package ports

import (
	"context"

	"github.com/Lizz6780/phishscope-sentinel/internal/domain"
)

// URLChecker queries an external reputation service for one URL.
//
// Implementations must absorb transport and protocol failures: on any
// error they return the neutral zero result so a reputation outage can
// never abort a pipeline run. The error return exists for logging and
// metrics only; callers use the result regardless.
type URLChecker interface {
	CheckURL(ctx context.Context, url string) (domain.URLReputation, error)
}

// IPChecker queries an external abuse database for one IP address and
// returns an abuse-confidence score in [0,100]. Same failure contract as
// URLChecker: neutral 0 on any failure, error is informational.
type IPChecker interface {
	CheckIP(ctx context.Context, ip string) (int, error)
}
