// Package sqlite is the embedded backend: a single SQLite file through the
// pure-Go modernc driver, with document titles and contents sealed at rest.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"sync"

	"github.com/dmitrijs2005/docstore/internal/common"
	"github.com/dmitrijs2005/docstore/internal/cryptox"
	"github.com/dmitrijs2005/docstore/internal/dberr"
	"github.com/dmitrijs2005/docstore/internal/dbx"
	"github.com/dmitrijs2005/docstore/internal/logging"
	litemigrations "github.com/dmitrijs2005/docstore/internal/migrations/sqlite"
	"github.com/dmitrijs2005/docstore/internal/repositories/branches"
	"github.com/dmitrijs2005/docstore/internal/repositories/documents"
	"github.com/dmitrijs2005/docstore/internal/repositories/tags"
	"github.com/dmitrijs2005/docstore/internal/repositories/users"
	"github.com/dmitrijs2005/docstore/internal/repositories/versions"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const Name = "sqlite"

// Options locates the database file and the passphrase that unlocks it.
type Options struct {
	Path       string
	Passphrase string
}

type Adapter struct {
	opts Options
	log  logging.Logger

	mu     sync.RWMutex
	db     *sql.DB
	sealer *cryptox.Sealer
}

func NewAdapter(opts Options, log logging.Logger) *Adapter {
	return &Adapter{opts: opts, log: log.With("backend", Name)}
}

// DSN builds the modernc DSN for path: foreign keys on, WAL journal,
// a busy timeout so a second writer waits instead of failing.
func DSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Set("_time_format", "sqlite")
	return "file:" + path + "?" + q.Encode()
}

func (a *Adapter) Name() string { return Name }

func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", DSN(a.opts.Path))
	if err != nil {
		return dberr.FromSQLite("connect", err)
	}
	// one writer; transactions and plain queries share the same connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return dberr.FromSQLite("connect", err)
	}

	a.db = db
	a.log.Info(ctx, "connected", "path", a.opts.Path)
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
	a.sealer = nil
	if err != nil {
		return dberr.FromSQLite("disconnect", err)
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
		return nil, dberr.FromSQLite("query", err, args...)
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
	return dberr.FromSQLite("transaction", err)
}

// CreateSchema applies migrations and then unlocks the field encryption key.
// A passphrase that does not match the one the file was created with is
// reported as a connection error: the backend is unusable, not broken.
func (a *Adapter) CreateSchema(ctx context.Context) error {
	db := a.pool()
	if db == nil {
		return dberr.Migration(Name, errNotConnected)
	}

	p, err := goose.NewProvider(goose.DialectSQLite3, db, litemigrations.Migrations)
	if err != nil {
		return dberr.Migration(Name, err)
	}
	results, err := p.Up(ctx)
	if err != nil {
		return dberr.Migration(Name, err)
	}
	a.log.Info(ctx, "schema ready", "applied", len(results))

	sealer, err := unlock(ctx, db, a.opts.Passphrase)
	if err != nil {
		if errors.Is(err, cryptox.ErrWrongKey) {
			return dberr.Connection(Name, "unlock", err)
		}
		return err
	}
	if a.opts.Passphrase == "" {
		a.log.Warn(ctx, "embedded store is protected by an empty passphrase")
	}

	a.mu.Lock()
	a.sealer = sealer
	a.mu.Unlock()
	return nil
}

func (a *Adapter) cipher() *cryptox.Sealer {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sealer
}

// sealed pairs db with the field cipher. Until the store is unlocked the
// repository gets the closed handle and a throwaway key, so its calls fail
// as disconnected and nothing is sealed with a real key.
func (a *Adapter) sealed(db dbx.DBTX) (dbx.DBTX, *cryptox.Sealer) {
	if s := a.cipher(); s != nil {
		return db, s
	}
	return dbx.Closed(), lockedSealer()
}

var lockedSealer = sync.OnceValue(func() *cryptox.Sealer {
	s, err := cryptox.NewSealer(common.GenerateRandByteArray(cryptox.KeySize))
	if err != nil {
		panic(err)
	}
	return s
})

func (a *Adapter) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (a *Adapter) Documents(db dbx.DBTX) documents.Repository {
	return documents.NewSQLiteRepository(a.sealed(db))
}

func (a *Adapter) Versions(db dbx.DBTX) versions.Repository {
	return versions.NewSQLiteRepository(a.sealed(db))
}

func (a *Adapter) Branches(db dbx.DBTX) branches.Repository {
	return branches.NewSQLiteRepository(db)
}

func (a *Adapter) Tags(db dbx.DBTX) tags.Repository {
	return tags.NewSQLiteRepository(db)
}
