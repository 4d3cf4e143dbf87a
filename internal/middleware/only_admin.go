package middleware

import (
	"context"

	"github.com/klede-lab/waitlist/internal/common"
	"github.com/klede-lab/waitlist/pkg/errorx"
	"github.com/klede-lab/waitlist/pkg/router"
)

type OnlyAdmin struct {
	adminVerifier *common.AdminVerifier
}

func NewOnlyAdmin(adminVerifier *common.AdminVerifier) *OnlyAdmin {
	return &OnlyAdmin{adminVerifier: adminVerifier}
}

func (a *OnlyAdmin) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if !a.adminVerifier.Verify(ctx) {
			return nil, errorx.New(errorx.Unauthenticated, "Unauthorized")
		}

		return nil, nil
	}
}
