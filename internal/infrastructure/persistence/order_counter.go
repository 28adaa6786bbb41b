package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// OrderCounter backs order number generation. Each row is one named
// sequence; the upsert below increments it atomically so two transactions
// can never draw the same number.
type OrderCounter struct {
	Name  string `gorm:"type:varchar(30);primary_key"`
	Value int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderCounter) TableName() string {
	return "order_counters"
}

// nextCounterValue atomically increments the named counter and returns the
// new value. The single upsert statement takes a row lock, so concurrent
// callers serialize on the counter instead of reading a shared stale value.
func nextCounterValue(ctx context.Context, db *gorm.DB, name string) (int64, error) {
	var value int64
	err := db.WithContext(ctx).Raw(
		`INSERT INTO order_counters (name, value) VALUES (?, 1)
		 ON CONFLICT (name) DO UPDATE SET value = order_counters.value + 1
		 RETURNING value`, name).Scan(&value).Error
	if err != nil {
		return 0, fmt.Errorf("failed to advance counter %s: %w", name, err)
	}
	return value, nil
}

// formatOrderNumber renders a counter value as an order number
func formatOrderNumber(prefix string, value int64) string {
	return fmt.Sprintf("%s-%06d", prefix, value)
}
