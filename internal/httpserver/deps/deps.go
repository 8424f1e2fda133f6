package deps

import (
	"time"

	"github.com/MrSnakeDoc/beanstalk/internal/journal"
	"github.com/MrSnakeDoc/beanstalk/internal/logger"
	"github.com/MrSnakeDoc/beanstalk/internal/metrics"
	"github.com/MrSnakeDoc/beanstalk/internal/store"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   journal.Clock // defaults to time.Now

	Journal *journal.Journal
	Gateway store.Gateway    // pinged by /readyz
	Metrics *metrics.Metrics // nil disables /metrics

	APISecret       []byte   // HS256 secret guarding /api; empty disables the guard
	AllowedCIDRS    []string // IPs allowed to reach readyz and metrics
	TrustProxy      bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CORSOrigins     []string // allowed CORS origins
	RateLimitBurst  int      // deed submissions per client IP in a burst
	RateLimitPerMin int      // sustained deed submissions per client IP
}

// Now returns the current time from TimeNow, or the wall clock.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
