package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"options-analytics/internal/errors"
	"options-analytics/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.NewStoreError("open", dbPath, err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, errors.NewStoreError("init_schema", dbPath, err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Chain snapshots: one row per (symbol, expiry) with strikes as JSON
	CREATE TABLE IF NOT EXISTS chain_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		expiry DATETIME NOT NULL,
		spot_price REAL NOT NULL,
		strikes TEXT NOT NULL,
		saved_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, expiry)
	);
	CREATE INDEX IF NOT EXISTS idx_chain_symbol ON chain_snapshots(symbol, saved_at);

	-- Saved strategy definitions
	CREATE TABLE IF NOT EXISTS strategies (
		name TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		legs TEXT NOT NULL,
		saved_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveChain upserts a chain snapshot.
func (s *SQLiteStore) SaveChain(ctx context.Context, chain *models.OptionChain) error {
	strikes, err := json.Marshal(chain.Strikes)
	if err != nil {
		return errors.NewStoreError("save_chain", chain.Symbol, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO chain_snapshots (symbol, expiry, spot_price, strikes)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(symbol, expiry) DO UPDATE SET
			spot_price = excluded.spot_price,
			strikes = excluded.strikes,
			saved_at = CURRENT_TIMESTAMP`,
		chain.Symbol, chain.Expiry.UTC(), chain.SpotPrice, string(strikes))
	if err != nil {
		return errors.NewStoreError("save_chain", chain.Symbol, err)
	}
	return nil
}

// GetChain loads the chain snapshot for a symbol and expiry.
func (s *SQLiteStore) GetChain(ctx context.Context, symbol string, expiry time.Time) (*models.OptionChain, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT symbol, expiry, spot_price, strikes
		FROM chain_snapshots WHERE symbol = ? AND expiry = ?`,
		symbol, expiry.UTC())
	return scanChain(row, symbol)
}

// GetLatestChain loads the most recently saved chain for a symbol.
func (s *SQLiteStore) GetLatestChain(ctx context.Context, symbol string) (*models.OptionChain, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT symbol, expiry, spot_price, strikes
		FROM chain_snapshots WHERE symbol = ?
		ORDER BY saved_at DESC LIMIT 1`,
		symbol)
	return scanChain(row, symbol)
}

func scanChain(row *sql.Row, symbol string) (*models.OptionChain, error) {
	var chain models.OptionChain
	var strikesJSON string
	err := row.Scan(&chain.Symbol, &chain.Expiry, &chain.SpotPrice, &strikesJSON)
	if err == sql.ErrNoRows {
		return nil, errors.ErrDataNotFound
	}
	if err != nil {
		return nil, errors.NewStoreError("get_chain", symbol, err)
	}
	if err := json.Unmarshal([]byte(strikesJSON), &chain.Strikes); err != nil {
		return nil, errors.NewStoreError("get_chain", symbol, err)
	}
	return &chain, nil
}

// ListChainExpiries returns the saved expiries for a symbol in
// ascending order.
func (s *SQLiteStore) ListChainExpiries(ctx context.Context, symbol string) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT expiry FROM chain_snapshots WHERE symbol = ? ORDER BY expiry`,
		symbol)
	if err != nil {
		return nil, errors.NewStoreError("list_expiries", symbol, err)
	}
	defer rows.Close()

	var expiries []time.Time
	for rows.Next() {
		var e time.Time
		if err := rows.Scan(&e); err != nil {
			return nil, errors.NewStoreError("list_expiries", symbol, err)
		}
		expiries = append(expiries, e)
	}
	return expiries, rows.Err()
}

// storedLeg is the JSON shape of a persisted strategy leg.
type storedLeg struct {
	Symbol        string          `json:"symbol"`
	Strike        decimal.Decimal `json:"strike"`
	Expiry        time.Time       `json:"expiry"`
	Type          string          `json:"type"`
	Position      string          `json:"position"`
	Quantity      int             `json:"quantity"`
	Premium       decimal.Decimal `json:"premium"`
	RiskFreeRate  float64         `json:"risk_free_rate"`
	DividendYield float64         `json:"dividend_yield"`
}

// SaveStrategy upserts a strategy definition. Market data fields are
// not persisted; they are collaborator inputs refreshed on load.
func (s *SQLiteStore) SaveStrategy(ctx context.Context, name string, strategy *models.Strategy) error {
	legs := make([]storedLeg, 0, len(strategy.Legs))
	for _, leg := range strategy.Legs {
		legs = append(legs, storedLeg{
			Symbol:        leg.Symbol,
			Strike:        leg.Strike,
			Expiry:        leg.Expiry,
			Type:          string(leg.Type),
			Position:      string(leg.Position),
			Quantity:      leg.Quantity,
			Premium:       leg.Premium,
			RiskFreeRate:  leg.RiskFreeRate,
			DividendYield: leg.DividendYield,
		})
	}
	payload, err := json.Marshal(legs)
	if err != nil {
		return errors.NewStoreError("save_strategy", name, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO strategies (name, symbol, legs) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			symbol = excluded.symbol,
			legs = excluded.legs,
			saved_at = CURRENT_TIMESTAMP`,
		name, strategy.Symbol(), string(payload))
	if err != nil {
		return errors.NewStoreError("save_strategy", name, err)
	}
	return nil
}

// GetStrategy loads a saved strategy definition by name.
func (s *SQLiteStore) GetStrategy(ctx context.Context, name string) (*models.Strategy, error) {
	var legsJSON string
	err := s.db.QueryRowContext(ctx, `SELECT legs FROM strategies WHERE name = ?`, name).Scan(&legsJSON)
	if err == sql.ErrNoRows {
		return nil, errors.ErrDataNotFound
	}
	if err != nil {
		return nil, errors.NewStoreError("get_strategy", name, err)
	}

	var stored []storedLeg
	if err := json.Unmarshal([]byte(legsJSON), &stored); err != nil {
		return nil, errors.NewStoreError("get_strategy", name, err)
	}

	legs := make([]*models.OptionContract, 0, len(stored))
	for _, sl := range stored {
		legs = append(legs, &models.OptionContract{
			Symbol:        sl.Symbol,
			Strike:        sl.Strike,
			Expiry:        sl.Expiry,
			Type:          models.OptionType(sl.Type),
			Position:      models.Position(sl.Position),
			Quantity:      sl.Quantity,
			Premium:       sl.Premium,
			RiskFreeRate:  sl.RiskFreeRate,
			DividendYield: sl.DividendYield,
		})
	}
	// Bypass expiry validation: a saved strategy may legitimately have
	// expired since it was stored.
	return &models.Strategy{Name: name, Legs: legs}, nil
}

// ListStrategies returns the saved strategy names.
func (s *SQLiteStore) ListStrategies(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM strategies ORDER BY name`)
	if err != nil {
		return nil, errors.NewStoreError("list_strategies", "", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.NewStoreError("list_strategies", "", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteStrategy removes a saved strategy.
func (s *SQLiteStore) DeleteStrategy(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM strategies WHERE name = ?`, name)
	if err != nil {
		return errors.NewStoreError("delete_strategy", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.ErrDataNotFound
	}
	return nil
}
