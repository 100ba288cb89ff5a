package xcontext

import (
	"context"

	"github.com/zetabot-lab/backend/config"
	"github.com/zetabot-lab/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey struct{}
	loggerKey  struct{}
	dbKey      struct{}
	txKey      struct{}
	userIDKey  struct{}
)

type dbTransaction struct {
	tx       *gorm.DB
	finished bool
}

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		return config.Configs{}
	}

	return cfg
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		return logger.NewLogger()
	}

	return l
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the database transaction of this context if it began with
// WithDBTransaction, otherwise it returns the root database handle.
func DB(ctx context.Context) *gorm.DB {
	if txn, ok := ctx.Value(txKey{}).(*dbTransaction); ok && !txn.finished {
		return txn.tx
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("no database in context")
	}

	return db
}

// WithDBTransaction begins a transaction and replaces the value returned
// by DB with it until the transaction is committed or rolled back.
func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, &dbTransaction{tx: DB(ctx).Begin()})
}

func WithCommitDBTransaction(ctx context.Context) context.Context {
	if txn, ok := ctx.Value(txKey{}).(*dbTransaction); ok && !txn.finished {
		txn.tx.Commit()
		txn.finished = true
	}

	return ctx
}

// WithRollbackDBTransaction rolls back the current transaction. It is a
// no-op after WithCommitDBTransaction, so it is safe to defer.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	if txn, ok := ctx.Value(txKey{}).(*dbTransaction); ok && !txn.finished {
		txn.tx.Rollback()
		txn.finished = true
	}

	return ctx
}

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

func RequestUserID(ctx context.Context) string {
	id, ok := ctx.Value(userIDKey{}).(string)
	if !ok {
		return ""
	}

	return id
}
