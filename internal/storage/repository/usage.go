package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/barakahtool/barakah-backend/internal/models"
)

// LogUsage добавляет запись в журнал использования и возвращает её ID.
func (s *Storage) LogUsage(ctx context.Context, entry models.UsageEntry) (int, error) {
	const op = "storage.LogUsage"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO usage_logs (user_uid, product_type, action, metadata)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query,
		entry.UserUID, entry.ProductType, entry.Action, metadata).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}
