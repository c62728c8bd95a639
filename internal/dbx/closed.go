package dbx

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sync"
)

// ErrNotConnected is what every call on the Closed handle fails with. It
// wraps sql.ErrConnDone, so the dberr classifiers report a connection error.
var ErrNotConnected = fmt.Errorf("%w: backend not connected", sql.ErrConnDone)

// Closed returns the handle adapters give out instead of a nil DBTX while
// their pool is down. Nothing ever reaches a database through it.
func Closed() DBTX {
	return closedDB()
}

var closedDB = sync.OnceValue(func() *sql.DB {
	return sql.OpenDB(refuser{})
})

// refuser is both the connector and the driver behind Closed.
type refuser struct{}

func (refuser) Connect(context.Context) (driver.Conn, error) { return nil, ErrNotConnected }

func (r refuser) Driver() driver.Driver { return r }

func (refuser) Open(string) (driver.Conn, error) { return nil, ErrNotConnected }
