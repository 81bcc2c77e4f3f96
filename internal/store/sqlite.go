package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	apperrors "legacy-guardians/internal/errors"
	"legacy-guardians/internal/models"
)

func decimalFromString(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad decimal %q: %w", s, err)
	}
	return d, nil
}

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Completed trading sessions
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		ended_at DATETIME NOT NULL,
		capital REAL NOT NULL,
		final_value REAL NOT NULL,
		total_return REAL NOT NULL,
		volatility REAL NOT NULL,
		sharpe_ratio REAL NOT NULL,
		max_drawdown REAL NOT NULL,
		annualized_return REAL NOT NULL,
		ticks INTEGER NOT NULL,
		chart_data TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Trades executed within a session
	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		side TEXT NOT NULL,
		asset TEXT NOT NULL,
		quantity TEXT NOT NULL,
		price TEXT NOT NULL,
		tick INTEGER NOT NULL,
		executed_at DATETIME NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);

	-- Coach chat transcript per session
	CREATE TABLE IF NOT EXISTS chat_messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		message_id TEXT NOT NULL,
		sender TEXT NOT NULL,
		text TEXT NOT NULL,
		sent_at DATETIME NOT NULL
	);

	-- Player feedback
	CREATE TABLE IF NOT EXISTS feedback (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		rating INTEGER NOT NULL,
		message TEXT,
		email TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Newsletter subscribers
	CREATE TABLE IF NOT EXISTS subscribers (
		email TEXT PRIMARY KEY,
		subscribed_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_trades_session ON trades(session_id);
	CREATE INDEX IF NOT EXISTS idx_chat_session ON chat_messages(session_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_ended ON sessions(ended_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveSession persists a completed session and its trades atomically.
func (s *SQLiteStore) SaveSession(ctx context.Context, rec *SessionRecord, trades []models.TradeAction) error {
	chartJSON, err := json.Marshal(rec.ChartData)
	if err != nil {
		return fmt.Errorf("failed to marshal chart data: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO sessions
		(id, started_at, ended_at, capital, final_value, total_return,
		 volatility, sharpe_ratio, max_drawdown, annualized_return, ticks, chart_data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StartedAt, rec.EndedAt, rec.Capital, rec.FinalValue,
		rec.TotalReturn, rec.Volatility, rec.SharpeRatio, rec.MaxDrawdown,
		rec.AnnualizedReturn, rec.Ticks, string(chartJSON))
	if err != nil {
		return apperrors.Wrap(err, "failed to save session")
	}

	for _, trade := range trades {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO trades (session_id, side, asset, quantity, price, tick, executed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, string(trade.Side), trade.Asset, trade.Quantity.String(),
			trade.Price.String(), trade.Tick, trade.Time)
		if err != nil {
			return apperrors.Wrap(err, "failed to save trade")
		}
	}

	return tx.Commit()
}

// GetSession returns one persisted session by id.
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*SessionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, ended_at, capital, final_value, total_return,
		       volatility, sharpe_ratio, max_drawdown, annualized_return, ticks, chart_data
		FROM sessions WHERE id = ?`, id)

	rec, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.Wrapf(apperrors.ErrDataNotFound, "session %s", id)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load session")
	}
	return rec, nil
}

// ListSessions returns the most recently ended sessions.
func (s *SQLiteStore) ListSessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, ended_at, capital, final_value, total_return,
		       volatility, sharpe_ratio, max_drawdown, annualized_return, ticks, chart_data
		FROM sessions ORDER BY ended_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list sessions")
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan session")
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*SessionRecord, error) {
	var rec SessionRecord
	var chartJSON sql.NullString
	err := row.Scan(&rec.ID, &rec.StartedAt, &rec.EndedAt, &rec.Capital,
		&rec.FinalValue, &rec.TotalReturn, &rec.Volatility, &rec.SharpeRatio,
		&rec.MaxDrawdown, &rec.AnnualizedReturn, &rec.Ticks, &chartJSON)
	if err != nil {
		return nil, err
	}
	if chartJSON.Valid && chartJSON.String != "" {
		if err := json.Unmarshal([]byte(chartJSON.String), &rec.ChartData); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chart data: %w", err)
		}
	}
	return &rec, nil
}

// GetSessionTrades returns all trades of a session in execution order.
func (s *SQLiteStore) GetSessionTrades(ctx context.Context, sessionID string) ([]models.TradeAction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT side, asset, quantity, price, tick, executed_at
		FROM trades WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load trades")
	}
	defer rows.Close()

	var trades []models.TradeAction
	for rows.Next() {
		var t models.TradeAction
		var side, qty, price string
		if err := rows.Scan(&side, &t.Asset, &qty, &price, &t.Tick, &t.Time); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan trade")
		}
		t.Side = models.TradeSide(side)
		if t.Quantity, err = decimalFromString(qty); err != nil {
			return nil, err
		}
		if t.Price, err = decimalFromString(price); err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// SaveChatMessages persists a session's transcript. Pending placeholders
// are skipped; only settled messages are stored.
func (s *SQLiteStore) SaveChatMessages(ctx context.Context, sessionID string, messages []models.ChatMessage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	for _, msg := range messages {
		if msg.Pending {
			continue
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO chat_messages (session_id, message_id, sender, text, sent_at)
			VALUES (?, ?, ?, ?, ?)`,
			sessionID, msg.ID, string(msg.Sender), msg.Text, msg.Timestamp)
		if err != nil {
			return apperrors.Wrap(err, "failed to save chat message")
		}
	}
	return tx.Commit()
}

// GetChatMessages returns a session's transcript in order.
func (s *SQLiteStore) GetChatMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT message_id, sender, text, sent_at
		FROM chat_messages WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load chat messages")
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		var sender string
		if err := rows.Scan(&msg.ID, &sender, &msg.Text, &msg.Timestamp); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan chat message")
		}
		msg.Sender = models.ChatSender(sender)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// SaveFeedback stores one feedback entry.
func (s *SQLiteStore) SaveFeedback(ctx context.Context, entry *FeedbackEntry) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback (rating, message, email) VALUES (?, ?, ?)`,
		entry.Rating, entry.Message, entry.Email)
	if err != nil {
		return apperrors.Wrap(err, "failed to save feedback")
	}
	entry.ID, _ = res.LastInsertId()
	return nil
}

// Subscribe adds an email to the newsletter list. It is idempotent and
// reports whether the subscription was new.
func (s *SQLiteStore) Subscribe(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO subscribers (email) VALUES (?)`, email)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to subscribe")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to subscribe")
	}
	return n > 0, nil
}

// SubscriberCount returns the number of newsletter subscribers.
func (s *SQLiteStore) SubscriberCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscribers`).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count subscribers")
	}
	return count, nil
}

// GetStats aggregates landing-page statistics.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(AVG(total_return), 0),
		       COALESCE(MAX(total_return), 0)
		FROM sessions`).Scan(&stats.SessionsPlayed, &stats.AverageReturn, &stats.BestReturn)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to aggregate sessions")
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscribers`).Scan(&stats.SubscriberCount); err != nil {
		return nil, apperrors.Wrap(err, "failed to count subscribers")
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&stats.FeedbackCount); err != nil {
		return nil, apperrors.Wrap(err, "failed to count feedback")
	}
	return stats, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
