package postgresql_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.llib.dev/testcase/assert"
	"go.llib.dev/testcase/random"

	"go.llib.dev/batchiter"
	"go.llib.dev/batchiter/adapter/postgresql"
	"go.llib.dev/batchiter/spechelper/testent"
)

var rnd = random.New(random.CryptoSeed{})

var (
	pool      *pgxpool.Pool
	mutexPool sync.Mutex
)

func GetConnection(tb testing.TB) *pgxpool.Pool {
	mutexPool.Lock()
	defer mutexPool.Unlock()
	if pool != nil {
		return pool
	}
	p, err := postgresql.Connect(DatabaseURL(tb))
	assert.NoError(tb, err)
	assert.NotNil(tb, p)
	pool = p
	return pool
}

func DatabaseURL(tb testing.TB) string {
	const envKey = `PG_DATABASE_URL`
	databaseURL, ok := os.LookupEnv(envKey)
	if !ok {
		tb.Skipf(`%s env variable is missing`, envKey)
	}
	return databaseURL
}

func MigrateFoo(tb testing.TB, p *pgxpool.Pool) {
	ctx := context.Background()
	_, err := p.Exec(ctx, FooMigrateDOWN)
	assert.Nil(tb, err)
	_, err = p.Exec(ctx, FooMigrateUP)
	assert.Nil(tb, err)
	tb.Cleanup(func() {
		_, err := p.Exec(ctx, FooMigrateDOWN)
		assert.Nil(tb, err)
	})
}

const FooMigrateUP = `
CREATE TABLE IF NOT EXISTS "foos" (
    id	TEXT	NOT	NULL	PRIMARY KEY,
	foo	TEXT	NOT	NULL,
	bar	TEXT	NOT	NULL,
	baz	TEXT	NOT	NULL
);
`

const FooMigrateDOWN = `
DROP TABLE IF EXISTS "foos";
`

var FooMapping = batchiter.SQLRowMapperFunc[testent.Foo](func(s batchiter.SQLRowScanner) (testent.Foo, error) {
	var foo testent.Foo
	err := s.Scan(&foo.ID, &foo.Foo, &foo.Bar, &foo.Baz)
	return foo, err
})

func FooSource(p *pgxpool.Pool, batchSize int) *postgresql.Source[testent.Foo] {
	return &postgresql.Source[testent.Foo]{
		Connection: p,
		Mapping:    FooMapping,
		Table:      "foos",
		Columns:    []string{"id", "foo", "bar", "baz"},
		IDColumn:   "id",
		LastID:     func(f testent.Foo) any { return f.ID },
		BatchSize:  batchSize,
	}
}

func CreateFoos(tb testing.TB, p *pgxpool.Pool, n int) []testent.Foo {
	ctx := context.Background()
	foos := make([]testent.Foo, 0, n)
	for i := 0; i < n; i++ {
		foo := testent.MakeFoo(tb)
		foo.ID = testent.FooID(rnd.UUID())
		_, err := p.Exec(ctx, `INSERT INTO "foos" (id, foo, bar, baz) VALUES ($1, $2, $3, $4)`,
			foo.ID, foo.Foo, foo.Bar, foo.Baz)
		assert.NoError(tb, err)
		foos = append(foos, foo)
	}
	return foos
}
