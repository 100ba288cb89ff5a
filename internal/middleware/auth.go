package middleware

import (
	"context"

	"github.com/zetabot-lab/backend/pkg/router"
	"github.com/zetabot-lab/backend/pkg/xcontext"
)

// ImportUserID reads the user id the authenticating gateway attached to
// the request. Authentication itself happens upstream; the engine only
// consumes its outcome.
func ImportUserID() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		req := router.HTTPRequest(ctx)
		if req == nil {
			return ctx, nil
		}

		if userID := req.Header.Get("X-User-Id"); userID != "" {
			ctx = xcontext.WithRequestUserID(ctx, userID)
		}

		return ctx, nil
	}
}
