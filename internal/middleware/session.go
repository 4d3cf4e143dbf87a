package middleware

import (
	"context"
	"errors"

	"github.com/klede-lab/waitlist/pkg/router"
	"github.com/klede-lab/waitlist/pkg/xcontext"
)

type SessionResponse interface {
	SessionInfo() map[string]any
}

func HandleSaveSession() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		sessionResp, ok := xcontext.Response(ctx).(SessionResponse)
		if !ok {
			return nil, nil
		}

		sessionInfo := sessionResp.SessionInfo()
		if sessionInfo == nil {
			return nil, errors.New("no session info")
		}

		req := xcontext.HTTPRequest(ctx)
		session, err := xcontext.SessionStore(ctx).Get(req, xcontext.Configs(ctx).Session.Name)
		if err != nil {
			// A session signed with an old secret is replaced by a new one.
			xcontext.Logger(ctx).Warnf("Cannot decode session, create a new one: %v", err)
		}

		for k, v := range sessionInfo {
			session.Values[k] = v
		}

		if err := session.Save(req, xcontext.ResponseWriter(ctx)); err != nil {
			return nil, err
		}

		return nil, nil
	}
}
