package router

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zetabot-lab/backend/pkg/errorx"
	"github.com/zetabot-lab/backend/pkg/xcontext"
)

type requestInfoKey struct{}

// RequestInfo is what closers see of a finished request.
type RequestInfo struct {
	Method string
	Path   string
	Err    error
}

func GetRequestInfo(ctx context.Context) *RequestInfo {
	info, ok := ctx.Value(requestInfoKey{}).(*RequestInfo)
	if !ok {
		return &RequestInfo{}
	}

	return info
}

func wrapHandler[Request, Response any](
	r *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		info := &RequestInfo{Method: method, Path: gctx.Request.URL.Path}

		ctx := gctx.Request.Context()
		ctx = xcontext.WithConfigs(ctx, r.cfg)
		ctx = xcontext.WithLogger(ctx, r.logger)
		ctx = xcontext.WithDB(ctx, r.db)
		ctx = context.WithValue(ctx, requestInfoKey{}, info)
		ctx = context.WithValue(ctx, ginContextKey{}, gctx)

		defer func() {
			for _, closer := range r.closers {
				closer(ctx)
			}
		}()

		for _, middleware := range r.befores {
			newCtx, err := middleware(ctx)
			if err != nil {
				info.Err = err
				gctx.JSON(http.StatusOK, newErrorResponse(err))
				return
			}

			ctx = newCtx
		}

		var req Request
		var err error
		switch method {
		case http.MethodGet:
			err = gctx.BindQuery(&req)
		default:
			err = gctx.ShouldBindJSON(&req)
			// An empty body is a valid empty request.
			if err == io.EOF {
				err = nil
			}
		}
		if err != nil {
			info.Err = err
			gctx.JSON(http.StatusOK, newErrorResponse(
				errorx.New(errorx.BadRequest, "Cannot bind the request")))
			return
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			info.Err = err
			gctx.JSON(http.StatusOK, newErrorResponse(err))
			return
		}

		gctx.JSON(http.StatusOK, newResponse(resp))
	}
}

type ginContextKey struct{}

// HTTPRequest returns the underlying request of a router-driven context,
// for middlewares that read headers.
func HTTPRequest(ctx context.Context) *http.Request {
	gctx, ok := ctx.Value(ginContextKey{}).(*gin.Context)
	if !ok {
		return nil
	}

	return gctx.Request
}
