package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/klede-lab/waitlist/internal/common"
	"github.com/klede-lab/waitlist/pkg/errorx"
	"github.com/klede-lab/waitlist/pkg/router"
	"github.com/klede-lab/waitlist/pkg/xcontext"
)

func WithStartTime() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		return xcontext.WithStartTime(ctx, time.Now()), nil
	}
}

func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		startTime := xcontext.StartTime(ctx)

		code := 0
		if err := xcontext.Error(ctx); err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				code = int(errx.Code)
			} else {
				code = -1
			}
		}

		// Use the route pattern so that path wildcards do not explode the
		// label cardinality.
		req := xcontext.HTTPRequest(ctx)
		path := req.Pattern
		if path == "" {
			path = req.URL.Path
		}

		for key, counter := range common.PromCounters {
			switch key {
			case common.HTTPRequestTotal:
				counter.WithLabelValues(path, fmt.Sprint(code)).Inc()
			}
		}

		for key, histogram := range common.PromHistograms {
			switch key {
			case common.HTTPRequestDurationSeconds:
				histogram.WithLabelValues(path, fmt.Sprint(code)).Observe(time.Since(startTime).Seconds())
			}
		}
	}
}
