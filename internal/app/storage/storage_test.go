package storage

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-volunteerhub/internal/pkg/config"
)

// exerciseStorage runs the behaviour every driver must share.
func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.False(t, ok, "missing key must report ok == false")

	require.NoError(t, s.Set(ctx, KeyToken, "token-1"))
	require.NoError(t, s.Set(ctx, KeyUser, `{"id":"u1"}`))

	v, ok, err := s.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "token-1", v)

	require.NoError(t, s.Set(ctx, KeyToken, "token-2"))
	v, _, err = s.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "token-2", v, "set must overwrite")

	require.NoError(t, s.Delete(ctx, KeyToken, KeyUser))
	require.NoError(t, s.Delete(ctx, KeyToken, KeyUser), "deleting missing keys is not an error")

	_, ok, err = s.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	exerciseStorage(t, s)
}

func TestScoped_IsolatesInstances(t *testing.T) {
	ctx := context.Background()
	base := NewMemory()
	a := Scoped(base, "a")
	b := Scoped(base, "b")

	require.NoError(t, a.Set(ctx, KeyToken, "token-a"))

	_, ok, err := b.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	raw, ok, err := base.Get(ctx, "client:a:"+KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "token-a", raw)

	require.NoError(t, a.Close())
	v, ok, _ := a.Get(ctx, KeyToken)
	assert.True(t, ok, "closing a scoped view must not close the base storage")
	assert.Equal(t, "token-a", v)

	exerciseStorage(t, b)
}

func TestBadger_InMemory(t *testing.T) {
	s, err := OpenBadger(BadgerConfig{InMemory: true})
	require.NoError(t, err)
	defer s.Close()
	exerciseStorage(t, s)
}

func TestBadger_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := OpenBadger(BadgerConfig{Path: dir, SyncWrites: true, Logger: zap.NewNop()})
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyToken, "durable"))
	require.NoError(t, s.Close())

	s, err = OpenBadger(BadgerConfig{Path: dir})
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "durable", v)
}

func TestBadger_RequiresPath(t *testing.T) {
	_, err := OpenBadger(BadgerConfig{})
	assert.Error(t, err)
}

func TestSQLite(t *testing.T) {
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	defer s.Close()
	exerciseStorage(t, s)
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "client.db")

	s, err := OpenSQLite(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyUser, `{"id":"u1"}`))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, dsn)
	require.NoError(t, err, "migrations must be re-runnable")
	defer s.Close()

	v, ok, err := s.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"u1"}`, v)
}

func TestRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s, err := OpenRedis(context.Background(), RedisConfig{Addr: mr.Addr(), Prefix: "vh:"})
	require.NoError(t, err)
	defer s.Close()

	exerciseStorage(t, s)

	require.NoError(t, s.Set(context.Background(), KeyToken, "t"))
	got, err := mr.Get("vh:" + KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "t", got)
}

func TestRedis_PingFailure(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = OpenRedis(context.Background(), RedisConfig{Addr: addr})
	assert.Error(t, err)
}

func TestRedis_WrapsExistingClient(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")
	defer s.Close()
	exerciseStorage(t, s)
}

func TestPostgres(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewPostgres(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM client_storage WHERE key = $1")).
		WithArgs(KeyToken).
		WillReturnError(pgx.ErrNoRows)
	_, ok, err := s.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO client_storage (key,value,updated_at) VALUES ($1,$2,now()) ON CONFLICT (key) DO UPDATE")).
		WithArgs(KeyToken, "token-1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, s.Set(ctx, KeyToken, "token-1"))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM client_storage WHERE key = $1")).
		WithArgs(KeyToken).
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow("token-1"))
	v, ok, err := s.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "token-1", v)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM client_storage WHERE key IN ($1,$2)")).
		WithArgs(KeyToken, KeyUser).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	require.NoError(t, s.Delete(ctx, KeyToken, KeyUser))

	require.NoError(t, s.Delete(ctx), "no keys means no statement")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectionURL(t *testing.T) {
	got := ConnectionURL(config.PostgresConfig{
		Host: "db", Port: "5432", DB: "volunteerhub",
		Username: "app", Password: "s3cret", SSLMode: "disable",
	})
	assert.Equal(t, "postgresql://app:s3cret@db:5432/volunteerhub?sslmode=disable&timezone=utc", got)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.StorageConfig{Driver: "memory"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(ctx, config.StorageConfig{Driver: "badger", Badger: config.BadgerConfig{InMemory: true}}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &Badger{}, s)
	require.NoError(t, s.Close())

	s, err = Open(ctx, config.StorageConfig{Driver: "sqlite", SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "c.db")}}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, config.StorageConfig{Driver: "etcd"}, zap.NewNop())
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
