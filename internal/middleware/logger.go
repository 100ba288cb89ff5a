package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/zetabot-lab/backend/pkg/errorx"
	"github.com/zetabot-lab/backend/pkg/router"
	"github.com/zetabot-lab/backend/pkg/xcontext"
)

func Logger() router.CloserFunc {
	return func(ctx context.Context) {
		request := router.GetRequestInfo(ctx)
		info := fmt.Sprintf("%s | %s", request.Method, request.Path)
		if err := request.Err; err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				xcontext.Logger(ctx).Warnf("%s | %d", info, errx.Code)
			} else {
				xcontext.Logger(ctx).Errorf("%s | %d", info, -1)
			}
		} else {
			xcontext.Logger(ctx).Infof("%s", info)
		}
	}
}
