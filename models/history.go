package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// HistoryResults is the JSONB payload stored for a query
type HistoryResults struct {
	Laws       LawsResult       `json:"laws"`
	Precedents PrecedentsResult `json:"precedents"`
	Checklist  ChecklistResult  `json:"checklist"`
}

// Value implements driver.Valuer for JSONB
func (h HistoryResults) Value() (driver.Value, error) {
	return json.Marshal(h)
}

// Scan implements sql.Scanner for JSONB
func (h *HistoryResults) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		*h = HistoryResults{}
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*h = HistoryResults{}
		return nil
	}

	if len(bytes) == 0 {
		*h = HistoryResults{}
		return nil
	}

	return json.Unmarshal(bytes, h)
}

// QueryHistoryItem is one persisted legal query of a user
type QueryHistoryItem struct {
	ID        uuid.UUID      `json:"id"`
	UserID    string         `json:"user_id"`
	Query     string         `json:"query"`
	Results   HistoryResults `json:"results"`
	CreatedAt time.Time      `json:"timestamp"`
}

// NewHistoryResults copies the result slices out of an Insights value
func NewHistoryResults(in *Insights) HistoryResults {
	if in == nil {
		return HistoryResults{}
	}
	return HistoryResults{
		Laws:       in.Laws,
		Precedents: in.Precedents,
		Checklist:  in.Checklist,
	}
}
