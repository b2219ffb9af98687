package mariadb_test

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"

	"go.llib.dev/testcase/assert"
	"go.llib.dev/testcase/random"

	"go.llib.dev/batchiter"
	"go.llib.dev/batchiter/adapter/mariadb"
	"go.llib.dev/batchiter/spechelper/testent"
)

var rnd = random.New(random.CryptoSeed{})

var (
	connection      *sql.DB
	mutexConnection sync.Mutex
)

func GetConnection(tb testing.TB) *sql.DB {
	mutexConnection.Lock()
	defer mutexConnection.Unlock()
	if connection == nil {
		db, err := mariadb.Connect(DatabaseDSN(tb))
		assert.NoError(tb, err)
		assert.NotNil(tb, db)
		connection = db
	}
	assert.NoError(tb, connection.Ping())
	return connection
}

func DatabaseDSN(tb testing.TB) string {
	const envKey = `MARIADB_DATABASE_DSN`
	dsn, ok := os.LookupEnv(envKey)
	if !ok {
		tb.Skipf(`%s env variable is missing`, envKey)
	}
	return dsn
}

func MigrateFoo(tb testing.TB, db *sql.DB) {
	ctx := context.Background()
	_, err := db.ExecContext(ctx, FooMigrateDOWN)
	assert.Nil(tb, err)
	_, err = db.ExecContext(ctx, FooMigrateUP)
	assert.Nil(tb, err)
	tb.Cleanup(func() {
		_, err := db.ExecContext(ctx, FooMigrateDOWN)
		assert.Nil(tb, err)
	})
}

const FooMigrateUP = `
CREATE TABLE IF NOT EXISTS foos (
    id  VARCHAR(36) NOT NULL PRIMARY KEY,
    foo LONGTEXT    NOT NULL,
    bar LONGTEXT    NOT NULL,
    baz LONGTEXT    NOT NULL
);
`

const FooMigrateDOWN = `
DROP TABLE IF EXISTS foos;
`

var FooMapping = batchiter.SQLRowMapperFunc[testent.Foo](func(s batchiter.SQLRowScanner) (testent.Foo, error) {
	var foo testent.Foo
	err := s.Scan(&foo.ID, &foo.Foo, &foo.Bar, &foo.Baz)
	return foo, err
})

func FooSource(db *sql.DB, batchSize int) *mariadb.Source[testent.Foo] {
	return &mariadb.Source[testent.Foo]{
		DB:        db,
		Mapping:   FooMapping,
		Query:     "SELECT id, foo, bar, baz FROM foos ORDER BY id",
		BatchSize: batchSize,
	}
}

func CreateFoos(tb testing.TB, db *sql.DB, n int) []testent.Foo {
	ctx := context.Background()
	foos := make([]testent.Foo, 0, n)
	for i := 0; i < n; i++ {
		foo := testent.MakeFoo(tb)
		foo.ID = testent.FooID(rnd.UUID())
		_, err := db.ExecContext(ctx, `INSERT INTO foos (id, foo, bar, baz) VALUES (?, ?, ?, ?)`,
			foo.ID, foo.Foo, foo.Bar, foo.Baz)
		assert.NoError(tb, err)
		foos = append(foos, foo)
	}
	return foos
}
