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
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createAccountTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE accounts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		karma_balance INTEGER NOT NULL DEFAULT 0,
		cash_balance INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'active',
		hive_id TEXT NOT NULL DEFAULT 'quebec',
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createLedgerEntryTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE ledger_entries (
		id TEXT PRIMARY KEY,
		sender_id TEXT,
		receiver_id TEXT,
		amount INTEGER NOT NULL,
		credit_type TEXT NOT NULL DEFAULT 'cash',
		entry_type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		fee_amount INTEGER NOT NULL DEFAULT 0,
		tax_amount INTEGER NOT NULL DEFAULT 0,
		metadata TEXT DEFAULT '{}',
		hive_id TEXT NOT NULL DEFAULT 'quebec',
		created_at DATETIME
	);`)
}

func createWalletTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE wallets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		public_address TEXT NOT NULL UNIQUE,
		encrypted_private_key TEXT NOT NULL,
		encryption_iv TEXT NOT NULL,
		encryption_salt TEXT NOT NULL,
		encryption_auth_tag TEXT NOT NULL,
		encryption_meta TEXT NOT NULL DEFAULT '{}',
		balance INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createJackpotTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE jackpot_pools (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		target_amount INTEGER NOT NULL,
		current_amount INTEGER NOT NULL DEFAULT 0,
		min_contribution INTEGER NOT NULL DEFAULT 100,
		status TEXT NOT NULL DEFAULT 'active',
		min_active_users INTEGER NOT NULL DEFAULT 100,
		min_transactions INTEGER NOT NULL DEFAULT 1000,
		winner_seed TEXT,
		drawn_at DATETIME,
		hive_id TEXT NOT NULL DEFAULT 'quebec',
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE jackpot_entries (
		id TEXT PRIMARY KEY,
		pool_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		contribution_amount INTEGER NOT NULL,
		entry_transaction_id TEXT,
		entry_weight INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE jackpot_winners (
		id TEXT PRIMARY KEY,
		pool_id TEXT NOT NULL,
		winner_id TEXT NOT NULL,
		prize_amount INTEGER NOT NULL,
		payout_entry_id TEXT,
		fairness_proof TEXT NOT NULL,
		algo_version TEXT NOT NULL DEFAULT 'v1',
		drawn_at DATETIME,
		created_at DATETIME
	);`)
}

func createMarketplaceTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE marketplace_assets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		bee_type TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		metadata TEXT DEFAULT '{}',
		base_price INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		hive_id TEXT NOT NULL DEFAULT 'quebec',
		created_at DATETIME,
		sold_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE listings (
		id TEXT PRIMARY KEY,
		asset_id TEXT NOT NULL,
		seller_id TEXT NOT NULL,
		price INTEGER NOT NULL,
		description TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		expires_at DATETIME,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE trades (
		id TEXT PRIMARY KEY,
		listing_id TEXT NOT NULL,
		seller_id TEXT NOT NULL,
		buyer_id TEXT NOT NULL,
		asset_id TEXT NOT NULL,
		trade_amount INTEGER NOT NULL,
		platform_fee INTEGER NOT NULL DEFAULT 0,
		ledger_entry_id TEXT,
		created_at DATETIME
	);`)
}
