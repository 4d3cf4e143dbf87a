package xcontext

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/klede-lab/waitlist/config"
	"github.com/klede-lab/waitlist/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey        struct{}
	loggerKey         struct{}
	dbKey             struct{}
	dbTxKey           struct{}
	dbTxNestedKey     struct{}
	httpClientKey     struct{}
	httpRequestKey    struct{}
	responseWriterKey struct{}
	sessionStoreKey   struct{}
	requestIDKey      struct{}
	startTimeKey      struct{}
	errorKey          struct{}
	responseKey       struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, _ := ctx.Value(configsKey{}).(config.Configs)
	return cfg
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// Logger returns the logger stored in ctx. A context without logger gets a
// silent one so that callers never need a nil check.
func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		return logger.NewLogger(logger.SILENCE)
	}
	return l
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the current transaction if one was started by WithDBTransaction,
// otherwise the database. It returns nil when the process runs without a
// database (in-memory store).
func DB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(dbTxKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok || db == nil {
		return nil
	}

	return db.WithContext(ctx)
}

// WithDBTransaction starts a transaction which is used by DB(ctx) afterwards.
// Starting a transaction inside another one joins the outer transaction, only
// the outermost owner commits or rollbacks.
func WithDBTransaction(ctx context.Context) context.Context {
	if tx, ok := ctx.Value(dbTxKey{}).(*gorm.DB); ok && tx != nil {
		return context.WithValue(ctx, dbTxNestedKey{}, true)
	}

	db := DB(ctx)
	if db == nil {
		return ctx
	}

	ctx = context.WithValue(ctx, dbTxNestedKey{}, false)
	return context.WithValue(ctx, dbTxKey{}, db.Begin())
}

func isNestedTx(ctx context.Context) bool {
	nested, _ := ctx.Value(dbTxNestedKey{}).(bool)
	return nested
}

func WithCommitDBTransaction(ctx context.Context) error {
	if isNestedTx(ctx) {
		return nil
	}

	tx, ok := ctx.Value(dbTxKey{}).(*gorm.DB)
	if !ok || tx == nil {
		return nil
	}

	return tx.Commit().Error
}

func WithRollbackDBTransaction(ctx context.Context) {
	if isNestedTx(ctx) {
		return
	}

	tx, ok := ctx.Value(dbTxKey{}).(*gorm.DB)
	if !ok || tx == nil {
		return
	}

	// Rollback after commit returns ErrInvalidTransaction, which is fine.
	tx.Rollback()
}

func WithHTTPClient(ctx context.Context, client *http.Client) context.Context {
	return context.WithValue(ctx, httpClientKey{}, client)
}

func HTTPClient(ctx context.Context) *http.Client {
	client, ok := ctx.Value(httpClientKey{}).(*http.Client)
	if !ok {
		return http.DefaultClient
	}
	return client
}

func WithHTTPRequest(ctx context.Context, req *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, req)
}

func HTTPRequest(ctx context.Context) *http.Request {
	req, _ := ctx.Value(httpRequestKey{}).(*http.Request)
	return req
}

func WithResponseWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, responseWriterKey{}, w)
}

func ResponseWriter(ctx context.Context) http.ResponseWriter {
	w, _ := ctx.Value(responseWriterKey{}).(http.ResponseWriter)
	return w
}

func WithSessionStore(ctx context.Context, store sessions.Store) context.Context {
	return context.WithValue(ctx, sessionStoreKey{}, store)
}

func SessionStore(ctx context.Context) sessions.Store {
	store, _ := ctx.Value(sessionStoreKey{}).(sessions.Store)
	return store
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func WithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey{}, t)
}

func StartTime(ctx context.Context) time.Time {
	t, _ := ctx.Value(startTimeKey{}).(time.Time)
	return t
}

func WithError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, errorKey{}, err)
}

func Error(ctx context.Context) error {
	err, _ := ctx.Value(errorKey{}).(error)
	return err
}

func WithResponse(ctx context.Context, resp any) context.Context {
	return context.WithValue(ctx, responseKey{}, resp)
}

func Response(ctx context.Context) any {
	return ctx.Value(responseKey{})
}
