package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

func New(ctx context.Context) Context { return Context{Ctx: ctx} }

// DB returns the transaction when one is set, otherwise fallback, bound to Ctx.
func (c Context) DB(fallback *gorm.DB) *gorm.DB {
	db := c.Tx
	if db == nil {
		db = fallback
	}
	if c.Ctx == nil {
		return db
	}
	return db.WithContext(c.Ctx)
}
