package domain

import (
	"context"
	"io"
	"time"
)

type Service interface {
	// Upsert validates and stores one daily record, replacing an existing
	// row with the same (driver, date, client, area) key.
	Upsert(ctx context.Context, req UpsertRequest) (*DailyRunRecord, error)
	// ImportCSV ingests a semicolon-delimited daily export. Rows that fail
	// validation are collected into the summary; valid rows are upserted.
	ImportCSV(ctx context.Context, r io.Reader) (*ImportSummary, error)
	ListRange(ctx context.Context, driverID string, from, to time.Time) ([]DailyRunRecord, error)
}

type UpsertRequest struct {
	DriverID             string    `json:"driver_id"`
	Date                 time.Time `json:"date"`
	Client               string    `json:"client"`
	Area                 string    `json:"area"`
	SentCount            int64     `json:"sent_count"`
	PlannedCount         int64     `json:"planned_count"`
	DeliveredCount       int64     `json:"delivered_count"`
	UnitPrice            string    `json:"unit_price"`
	FuelDeduction        string    `json:"fuel_deduction"`
	TicketDiscount       string    `json:"ticket_discount"`
	TicketReconciliation string    `json:"ticket_reconciliation"`
	OtherDeduction       string    `json:"other_deduction"`
	Notes                string    `json:"notes"`
}

type ImportSummary struct {
	BatchID  string     `json:"batch_id"`
	Imported int        `json:"imported"`
	Failed   []RowError `json:"failed,omitempty"`
}

type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}
