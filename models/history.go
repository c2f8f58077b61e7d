package models

import "time"

// CycleRecord is one journal row.
type CycleRecord struct {
	ID          string    `json:"id"`
	Prompt      string    `json:"prompt"`
	Status      string    `json:"status"`
	Action      string    `json:"action,omitempty"`
	Ticker      string    `json:"ticker,omitempty"`
	Quantity    int64     `json:"quantity,omitempty"`
	TradeStatus string    `json:"trade_status,omitempty"`
	ReportJSON  string    `json:"report,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type HistoryParams struct {
	Limit int `json:"limit"`
}

// NewCycleRecord flattens a report into a journal row.
func NewCycleRecord(r *CycleReport, raw []byte, at time.Time) CycleRecord {
	rec := CycleRecord{
		ID:         r.CycleID,
		Prompt:     r.Prompt,
		Status:     r.Status,
		ReportJSON: string(raw),
		CreatedAt:  at,
	}
	if r.Data != nil {
		rec.Action = r.Data.HedgingStrategy.Action
		rec.Ticker = r.Data.HedgingStrategy.Ticker
		rec.Quantity = r.Data.HedgingStrategy.Quantity
		rec.TradeStatus = r.Data.TradeExecution.Status
	}
	return rec
}
