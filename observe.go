package listingsearch

import (
	"log/slog"
	"time"
)

// observer logs client operations through slog. Metrics go through the search
// service recorder.
type observer struct {
	logger *slog.Logger
}

func (o *observer) observe(op string, start time.Time, results int, err error) {
	if o == nil || o.logger == nil {
		return
	}
	dur := time.Since(start)
	if err != nil {
		o.logger.Warn("search failed",
			"op", op,
			"duration", dur,
			"error", err,
		)
		return
	}
	o.logger.Debug("search completed",
		"op", op,
		"results", results,
		"duration", dur,
	)
}
