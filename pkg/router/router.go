package router

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/klede-lab/waitlist/config"
	"github.com/klede-lab/waitlist/pkg/logger"
	"github.com/klede-lab/waitlist/pkg/xcontext"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before or after the handler. A non-nil returned context
// replaces the request context, a non-nil error stops the chain.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response is written, whatever the result is.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux *http.ServeMux

	db           *gorm.DB
	cfg          config.Configs
	logger       logger.Logger
	sessionStore sessions.Store

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	return &Router{
		mux:          http.NewServeMux(),
		db:           db,
		cfg:          cfg,
		logger:       logger,
		sessionStore: sessions.NewCookieStore([]byte(cfg.Session.Secret)),
	}
}

// Branch returns a router sharing the routes of r. Middlewares added to the
// branch do not affect r.
func (r *Router) Branch() *Router {
	clone := *r
	clone.befores = append([]MiddlewareFunc{}, r.befores...)
	clone.afters = append([]MiddlewareFunc{}, r.afters...)
	clone.closers = append([]CloserFunc{}, r.closers...)
	return &clone
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

// Handle registers a plain http handler, middlewares are not applied.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodGet, pattern, handler)
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodPost, pattern, handler)
}

func DELETE[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodDelete, pattern, handler)
}

func route[Request, Response any](
	r *Router,
	method, pattern string,
	handler HandlerFunc[Request, Response],
) {
	// Middlewares are captured at registration time.
	befores := append([]MiddlewareFunc{}, r.befores...)
	afters := append([]MiddlewareFunc{}, r.afters...)
	closers := append([]CloserFunc{}, r.closers...)
	params := pathParams(pattern)

	r.mux.HandleFunc(method+" "+pattern, func(w http.ResponseWriter, req *http.Request) {
		ctx := r.newContext(w, req)

		ctx = func() context.Context {
			var err error
			for _, before := range befores {
				if ctx, err = runMiddleware(ctx, before); err != nil {
					return xcontext.WithError(ctx, err)
				}
			}

			var request Request
			if err := parseRequest(req, params, &request); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot parse request: %v", err)
				return xcontext.WithError(ctx, err)
			}

			resp, err := handler(ctx, &request)
			if err != nil {
				return xcontext.WithError(ctx, err)
			}

			ctx = xcontext.WithResponse(ctx, resp)
			for _, after := range afters {
				if ctx, err = runMiddleware(ctx, after); err != nil {
					return xcontext.WithError(ctx, err)
				}
			}

			return ctx
		}()

		writeResponse(ctx, w)
		for _, closer := range closers {
			closer(ctx)
		}
	})
}

func (r *Router) newContext(w http.ResponseWriter, req *http.Request) context.Context {
	ctx := req.Context()
	ctx = xcontext.WithConfigs(ctx, r.cfg)
	ctx = xcontext.WithLogger(ctx, r.logger)
	ctx = xcontext.WithSessionStore(ctx, r.sessionStore)
	ctx = xcontext.WithHTTPRequest(ctx, req)
	ctx = xcontext.WithResponseWriter(ctx, w)
	if r.db != nil {
		ctx = xcontext.WithDB(ctx, r.db)
	}

	return ctx
}

func runMiddleware(ctx context.Context, middleware MiddlewareFunc) (context.Context, error) {
	newCtx, err := middleware(ctx)
	if err != nil {
		return ctx, err
	}

	if newCtx != nil {
		return newCtx, nil
	}

	return ctx, nil
}
