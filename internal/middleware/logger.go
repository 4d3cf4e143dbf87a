package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/klede-lab/waitlist/pkg/errorx"
	"github.com/klede-lab/waitlist/pkg/router"
	"github.com/klede-lab/waitlist/pkg/xcontext"
)

const RequestIDHeader = "X-Request-ID"

// WithRequestID tags the request logger with a request id, taken from the
// request header when the client sent one.
func WithRequestID() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		req := xcontext.HTTPRequest(ctx)
		id := req.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		xcontext.ResponseWriter(ctx).Header().Set(RequestIDHeader, id)
		ctx = xcontext.WithRequestID(ctx, id)
		ctx = xcontext.WithLogger(ctx, xcontext.Logger(ctx).With("request_id", id))
		return ctx, nil
	}
}

func Logger() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		info := fmt.Sprintf("%s | %s", req.Method, req.URL.Path)
		if startTime := xcontext.StartTime(ctx); !startTime.IsZero() {
			info = fmt.Sprintf("%s | %s", info, time.Since(startTime))
		}

		if err := xcontext.Error(ctx); err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				xcontext.Logger(ctx).Warnf("%s | %d", info, errx.Code)
			} else {
				xcontext.Logger(ctx).Errorf("%s | %d | %v", info, -1, err)
			}
		} else {
			xcontext.Logger(ctx).Infof("%s", info)
		}
	}
}
