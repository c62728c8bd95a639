// Package storage defines the contract every database backend satisfies.
//
// An Adapter owns one connection pool. Domain logic never holds a concrete
// adapter; it asks the adapter for repositories bound either to the pool
// (Conn) or to a transaction handle passed into Transaction.
package storage

import (
	"context"

	"github.com/dmitrijs2005/docstore/internal/dbx"
	"github.com/dmitrijs2005/docstore/internal/repositories/branches"
	"github.com/dmitrijs2005/docstore/internal/repositories/documents"
	"github.com/dmitrijs2005/docstore/internal/repositories/tags"
	"github.com/dmitrijs2005/docstore/internal/repositories/users"
	"github.com/dmitrijs2005/docstore/internal/repositories/versions"
)

// Repositories vends dialect-specific repositories bound to db.
type Repositories interface {
	Users(db dbx.DBTX) users.Repository
	Documents(db dbx.DBTX) documents.Repository
	Versions(db dbx.DBTX) versions.Repository
	Branches(db dbx.DBTX) branches.Repository
	Tags(db dbx.DBTX) tags.Repository
}

// Adapter is a connected (or connectable) database backend.
//
// All errors are classified with the dberr taxonomy. Transaction commits
// when fn returns nil and rolls back on error or panic; an error returned
// by fn is passed through unchanged.
type Adapter interface {
	Repositories

	Name() string
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	IsConnected() bool
	Query(ctx context.Context, query string, args ...any) (*dbx.Result, error)
	Transaction(ctx context.Context, fn dbx.TxFunc) error
	// CreateSchema brings the schema up to date. It must run after Connect
	// and before any repository is used.
	CreateSchema(ctx context.Context) error
	// Conn returns the pool handle. When disconnected it returns dbx.Closed,
	// whose calls fail with a connection error; it is never nil.
	Conn() dbx.DBTX
}
