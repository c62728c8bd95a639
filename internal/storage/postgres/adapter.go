// Package postgres is the networked relational backend, PostgreSQL through
// pgx's database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/docstore/internal/dberr"
	"github.com/dmitrijs2005/docstore/internal/dbx"
	"github.com/dmitrijs2005/docstore/internal/logging"
	pgmigrations "github.com/dmitrijs2005/docstore/internal/migrations/postgres"
	"github.com/dmitrijs2005/docstore/internal/repositories/branches"
	"github.com/dmitrijs2005/docstore/internal/repositories/documents"
	"github.com/dmitrijs2005/docstore/internal/repositories/tags"
	"github.com/dmitrijs2005/docstore/internal/repositories/users"
	"github.com/dmitrijs2005/docstore/internal/repositories/versions"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const Name = "postgres"

// Options configures the pool and driver timeouts.
type Options struct {
	DSN              string
	ConnectTimeout   time.Duration
	StatementTimeout time.Duration
	MaxOpenConns     int
}

type Adapter struct {
	opts Options
	log  logging.Logger

	mu sync.RWMutex
	db *sql.DB

	// openDB is a seam for tests.
	openDB func(cfg *pgx.ConnConfig) *sql.DB
}

func NewAdapter(opts Options, log logging.Logger) *Adapter {
	return &Adapter{
		opts: opts,
		log:  log.With("backend", Name),
		openDB: func(cfg *pgx.ConnConfig) *sql.DB {
			return stdlib.OpenDB(*cfg)
		},
	}
}

func (a *Adapter) Name() string { return Name }

func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.db != nil {
		return nil
	}

	cfg, err := pgx.ParseConfig(a.opts.DSN)
	if err != nil {
		// a malformed DSN will not get better by retrying
		return &dberr.Error{Kind: dberr.KindQuery, Op: "connect", Backend: Name, Detail: "invalid DSN", Err: err}
	}
	if a.opts.ConnectTimeout > 0 {
		cfg.ConnectTimeout = a.opts.ConnectTimeout
	}
	if a.opts.StatementTimeout > 0 {
		cfg.RuntimeParams["statement_timeout"] = strconv.FormatInt(a.opts.StatementTimeout.Milliseconds(), 10)
	}

	db := a.openDB(cfg)
	if a.opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(a.opts.MaxOpenConns)
		db.SetMaxIdleConns(a.opts.MaxOpenConns)
	}

	pingCtx := ctx
	if a.opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, a.opts.ConnectTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return dberr.FromPostgres("connect", err)
	}

	a.db = db
	a.log.Info(ctx, "connected", "host", cfg.Host, "database", cfg.Database)
	return nil
}

func (a *Adapter) Disconnect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	if err != nil {
		return dberr.FromPostgres("disconnect", err)
	}
	a.log.Info(ctx, "disconnected")
	return nil
}

func (a *Adapter) IsConnected() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.db != nil
}

// Conn returns the pool, or dbx.Closed when disconnected so a caller that
// raced a Disconnect gets a connection error instead of a nil handle.
func (a *Adapter) Conn() dbx.DBTX {
	db := a.pool()
	if db == nil {
		return dbx.Closed()
	}
	return db
}

func (a *Adapter) pool() *sql.DB {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.db
}

var errNotConnected = errors.New("not connected")

func (a *Adapter) Query(ctx context.Context, query string, args ...any) (*dbx.Result, error) {
	db := a.pool()
	if db == nil {
		return nil, dberr.Connection(Name, "query", errNotConnected)
	}
	res, err := dbx.Query(ctx, db, query, args...)
	if err != nil {
		return nil, dberr.FromPostgres("query", err, args...)
	}
	return res, nil
}

func (a *Adapter) Transaction(ctx context.Context, fn dbx.TxFunc) error {
	db := a.pool()
	if db == nil {
		return dberr.Connection(Name, "transaction", errNotConnected)
	}

	var fnErr error
	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		fnErr = fn(ctx, tx)
		return fnErr
	})
	if err == nil {
		return nil
	}
	if fnErr != nil {
		return fnErr
	}
	return dberr.FromPostgres("transaction", err)
}

func (a *Adapter) CreateSchema(ctx context.Context) error {
	db := a.pool()
	if db == nil {
		return dberr.Migration(Name, errNotConnected)
	}

	p, err := goose.NewProvider(goose.DialectPostgres, db, pgmigrations.Migrations)
	if err != nil {
		return dberr.Migration(Name, err)
	}
	results, err := p.Up(ctx)
	if err != nil {
		return dberr.Migration(Name, err)
	}
	a.log.Info(ctx, "schema ready", "applied", len(results))
	return nil
}

func (a *Adapter) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (a *Adapter) Documents(db dbx.DBTX) documents.Repository {
	return documents.NewPostgresRepository(db)
}

func (a *Adapter) Versions(db dbx.DBTX) versions.Repository {
	return versions.NewPostgresRepository(db)
}

func (a *Adapter) Branches(db dbx.DBTX) branches.Repository {
	return branches.NewPostgresRepository(db)
}

func (a *Adapter) Tags(db dbx.DBTX) tags.Repository {
	return tags.NewPostgresRepository(db)
}
