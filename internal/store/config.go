// Package store is the Store Adapter of spec §4.3: a Postgres-backed
// connection pool with pre-ping, scoped transactional sessions that are
// guaranteed to roll back and release on any error, and a health probe.
// It persists Session, Round, and Premise records; the in-round staging
// buffer itself never touches this package — only present_round commits
// durable records.
package store

import "time"

// PoolConfig configures the underlying *sql.DB connection pool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	ConnectTimeout  time.Duration
}

// DefaultPoolConfig returns the pool defaults used when none are supplied.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 2 * time.Minute,
		ConnectTimeout:  10 * time.Second,
	}
}
