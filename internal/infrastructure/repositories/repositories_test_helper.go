package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		email TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createCreditTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE credits (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		amount INTEGER NOT NULL,
		price REAL NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		is_expired BOOLEAN NOT NULL DEFAULT 0,
		creator_id TEXT NOT NULL,
		docu_url TEXT,
		req_status INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE credit_auditors (
		credit_id INTEGER NOT NULL,
		user_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		created_at DATETIME,
		PRIMARY KEY (credit_id, user_id)
	);`)
}

func createAuditRequestTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE audit_requests (
		id TEXT PRIMARY KEY,
		credit_id INTEGER NOT NULL,
		creator_id TEXT NOT NULL,
		auditors TEXT NOT NULL,
		score INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createLedgerTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE purchased_credits (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		credit_id INTEGER NOT NULL UNIQUE,
		amount INTEGER NOT NULL,
		creator_id TEXT NOT NULL,
		is_expired BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE transactions (
		id TEXT PRIMARY KEY,
		buyer_id TEXT NOT NULL,
		credit_id INTEGER NOT NULL,
		amount INTEGER NOT NULL,
		total_price REAL NOT NULL,
		txn_hash TEXT NOT NULL,
		timestamp DATETIME NOT NULL
	);`)
}

func createAllTables(t *testing.T, db *gorm.DB) {
	createUserTable(t, db)
	createCreditTables(t, db)
	createAuditRequestTable(t, db)
	createLedgerTables(t, db)
}
