package dto

import "github.com/shopspring/decimal"

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PairResponse struct {
	Entry string  `json:"entry"`
	Exit  string  `json:"exit"`
	Hours float64 `json:"hours"`
}

type DayHoursResponse struct {
	Date  string          `json:"date"`
	Hours decimal.Decimal `json:"hours"` // rounded to 2 decimals
}

type HoursReportResponse struct {
	EmployeeID string             `json:"employee_id"`
	TotalHours float64            `json:"total_hours"`
	Pairs      []PairResponse     `json:"periods"`
	PerDay     []DayHoursResponse `json:"per_day"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// EmailReportRequest carries the recipient; the report range comes from the
// same start/end query parameters as the JSON and PDF variants.
type EmailReportRequest struct {
	ToEmail string `json:"to_email" validate:"required,email"`
}
