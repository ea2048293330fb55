// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	pair TEXT NOT NULL,
	type TEXT NOT NULL CHECK (type IN ('BUY', 'SELL')),
	size REAL NOT NULL,
	entry REAL NOT NULL,
	exit REAL NOT NULL,
	stop_loss REAL,
	pnl REAL NOT NULL,
	date TEXT NOT NULL,
	comments TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_user_date ON trades(user_id, date DESC, id DESC);
`
