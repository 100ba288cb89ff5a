package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zetabot-lab/backend/config"
	"github.com/zetabot-lab/backend/pkg/logger"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler and may enrich the context. A
// returned error short-circuits the request.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the handler, successful or not. The request info
// is available through GetRequestInfo.
type CloserFunc func(ctx context.Context)

type Router struct {
	inner  gin.IRouter
	root   *gin.Engine
	cfg    config.Configs
	logger logger.Logger
	db     *gorm.DB

	befores []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	return &Router{
		inner:  engine,
		root:   engine,
		cfg:    cfg,
		logger: logger,
		db:     db,
	}
}

// Branch returns a router sharing the same engine but with its own copy
// of the middleware chain.
func (r *Router) Branch() *Router {
	clone := *r
	clone.befores = append([]MiddlewareFunc{}, r.befores...)
	clone.closers = append([]CloserFunc{}, r.closers...)
	return &clone
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Handler() http.Handler {
	return r.root
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}
