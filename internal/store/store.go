// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"legacy-guardians/internal/models"
)

// SessionRecord is a completed session as persisted.
type SessionRecord struct {
	ID               string
	StartedAt        time.Time
	EndedAt          time.Time
	Capital          float64
	FinalValue       float64
	TotalReturn      float64
	Volatility       float64
	SharpeRatio      float64
	MaxDrawdown      float64
	AnnualizedReturn float64
	Ticks            int
	ChartData        []models.ChartPoint
}

// FeedbackEntry is one piece of player feedback.
type FeedbackEntry struct {
	ID        int64
	Rating    int
	Message   string
	Email     string
	CreatedAt time.Time
}

// Stats aggregates what the landing page shows.
type Stats struct {
	SessionsPlayed  int     `json:"sessionsPlayed"`
	AverageReturn   float64 `json:"averageReturn"`
	BestReturn      float64 `json:"bestReturn"`
	SubscriberCount int     `json:"subscriberCount"`
	FeedbackCount   int     `json:"feedbackCount"`
}

// DataStore defines the interface for data persistence.
type DataStore interface {
	// Sessions
	SaveSession(ctx context.Context, rec *SessionRecord, trades []models.TradeAction) error
	GetSession(ctx context.Context, id string) (*SessionRecord, error)
	ListSessions(ctx context.Context, limit int) ([]SessionRecord, error)
	GetSessionTrades(ctx context.Context, sessionID string) ([]models.TradeAction, error)

	// Chat
	SaveChatMessages(ctx context.Context, sessionID string, messages []models.ChatMessage) error
	GetChatMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error)

	// Feedback
	SaveFeedback(ctx context.Context, entry *FeedbackEntry) error

	// Newsletter
	Subscribe(ctx context.Context, email string) (bool, error)
	SubscriberCount(ctx context.Context) (int, error)

	// Aggregates
	GetStats(ctx context.Context) (*Stats, error)

	Close() error
}
