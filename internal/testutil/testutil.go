// Package testutil 为包内测试构建一次性存储
package testutil

import (
	"database/sql"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/d60-Lab/foodgram/internal/model"
)

// NewDB 打开已迁移的内存 sqlite；单连接保证所有语句落在同一个内存库上
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(model.All()...); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

// QueryCounter 统计经 gorm 发出的查询，并单独记录事务外的查询
type QueryCounter struct {
	n       atomic.Int64
	outside atomic.Int64
}

// CountQueries 在 db 上注册计数回调，每个 db 只注册一次
func CountQueries(tb testing.TB, db *gorm.DB) *QueryCounter {
	tb.Helper()
	c := &QueryCounter{}
	inc := func(tx *gorm.DB) {
		c.n.Add(1)
		if _, ok := tx.Statement.ConnPool.(*sql.Tx); !ok {
			c.outside.Add(1)
		}
	}
	if err := db.Callback().Query().After("gorm:query").Register("testutil:count_query", inc); err != nil {
		tb.Fatalf("register query callback: %v", err)
	}
	if err := db.Callback().Row().After("gorm:row").Register("testutil:count_row", inc); err != nil {
		tb.Fatalf("register row callback: %v", err)
	}
	return c
}

func (c *QueryCounter) Reset() {
	c.n.Store(0)
	c.outside.Store(0)
}

func (c *QueryCounter) Load() int64 { return c.n.Load() }

// OutsideTx 不在事务中执行的查询数
func (c *QueryCounter) OutsideTx() int64 { return c.outside.Load() }
