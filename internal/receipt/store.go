package receipt

import (
	"context"
	"time"

	"github.com/google/uuid"

	"CartStore/internal/catalog"
)

type Line struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type Receipt struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Lines     []Line    `json:"lines"`
	Subtotal  int64     `json:"subtotal"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	Create(ctx context.Context, r Receipt) error
	Get(ctx context.Context, id string) (Receipt, bool, error)
	Ping(ctx context.Context) error
}

// New snapshots cart contents into a receipt.
func New(sessionID string, items []catalog.Item, subtotal int64, now time.Time) Receipt {
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, Line{Name: it.Name(), Price: it.Price()})
	}

	return Receipt{
		ID:        "r_" + uuid.NewString(),
		SessionID: sessionID,
		Lines:     lines,
		Subtotal:  subtotal,
		CreatedAt: now.UTC(),
	}
}
