package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"os"
	"os/exec"
	"testing"

	"ceylon-tours-be/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	cfg := &config.Config{
		DBHost:     "db.internal",
		DBUser:     "tours",
		DBPassword: "s3cret",
		DBName:     "ceylon_tours",
		DBPort:     "5433",
	}

	assert.Equal(t,
		"host=db.internal user=tours password=s3cret dbname=ceylon_tours port=5433 sslmode=disable connect_timeout=5",
		buildDSN(cfg),
	)
}

func TestOpen_UnknownDriver(t *testing.T) {
	db, err := open(&config.Config{}, "no_such_driver")

	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "open database")
}

func TestOpen_PingFailure(t *testing.T) {
	db, err := open(&config.Config{DBHost: "primary", DBPort: "5432"}, "ping_failing_driver")

	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "ping database primary:5432")
	assert.ErrorIs(t, err, errPingRefused)
}

func TestOpen_Success(t *testing.T) {
	db, err := open(&config.Config{DBHost: "localhost"}, "ping_ok_driver")
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, maxOpenConns, db.Stats().MaxOpenConnections)
}

func TestInitDB_FatalOnFailure(t *testing.T) {
	if os.Getenv("DB_INIT_CRASHER") == "1" {
		InitDB(&config.Config{DBHost: "invalid_host", DBPort: "1"})
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestInitDB_FatalOnFailure")
	cmd.Env = append(os.Environ(), "DB_INIT_CRASHER=1")
	err := cmd.Run()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && !exitErr.Success() {
		return
	}
	t.Fatalf("process ran with err %v, want non-zero exit", err)
}

var errPingRefused = errors.New("connection refused")

// stubDriver opens connections whose Ping returns pingErr.
type stubDriver struct {
	pingErr error
}

func (d *stubDriver) Open(string) (driver.Conn, error) { return &stubConn{pingErr: d.pingErr}, nil }

type stubConn struct {
	pingErr error
}

func (c *stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (c *stubConn) Close() error                        { return nil }
func (c *stubConn) Begin() (driver.Tx, error)           { return nil, errors.New("not supported") }

func (c *stubConn) Ping(ctx context.Context) error { return c.pingErr }

func init() {
	sql.Register("ping_ok_driver", &stubDriver{})
	sql.Register("ping_failing_driver", &stubDriver{pingErr: errPingRefused})
}
