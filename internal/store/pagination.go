package store

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JamissonSilvaTico/LavaJato/internal/models"
)

type CursorPage struct {
	Items      interface{} `json:"items"`
	NextCursor string      `json:"nextCursor,omitempty"`
	HasMore    bool        `json:"hasMore"`
}

type OffsetPage struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

func newOffsetPage(items interface{}, total int64, page, pageSize int) *OffsetPage {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return &OffsetPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// WorkOrderCursor is the keyset position after the last listed work order.
type WorkOrderCursor struct {
	CheckinTime time.Time `json:"checkinTime"`
	ID          int64     `json:"id"`
}

func EncodeCursor(cursor WorkOrderCursor) string {
	data, err := json.Marshal(cursor)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(data)
}

// DecodeCursor returns a position before every stored order when encoded is
// empty.
func DecodeCursor(encoded string) (WorkOrderCursor, error) {
	var cursor WorkOrderCursor
	if encoded == "" {
		return WorkOrderCursor{
			CheckinTime: time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC),
			ID:          int64(1<<63 - 1),
		}, nil
	}

	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return cursor, models.NewValidationError("cursor", "is malformed")
	}

	if err := json.Unmarshal(data, &cursor); err != nil {
		return cursor, models.NewValidationError("cursor", "is malformed")
	}
	return cursor, nil
}

func normalizePage(page, pageSize int) (int, int, error) {
	if page < 1 {
		page = 1
	}
	switch {
	case pageSize <= 0:
		pageSize = 20
	case pageSize > 100:
		return 0, 0, fmt.Errorf("page size %d: %w", pageSize, models.NewValidationError("pageSize", "must be at most 100"))
	}
	return page, pageSize, nil
}
