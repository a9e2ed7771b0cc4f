package service

import (
	"context"
	"sort"
	"time"

	"github.com/ismailhaddouche/PiControl/internal/model"
	"github.com/ismailhaddouche/PiControl/internal/repository"

	"github.com/shopspring/decimal"
)

// Pair is a matched (entry, exit) used for duration computation.
type Pair struct {
	Entry model.CheckIn
	Exit  model.CheckIn
}

// Seconds returns the pair duration in whole seconds, floored at zero as a
// guard against clock anomalies.
func (p Pair) Seconds() int64 {
	secs := int64(p.Exit.Timestamp.Sub(p.Entry.Timestamp).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}

// DayHours is one row of the per-day breakdown. Date is the calendar date
// (2006-01-02) in the timezone of the stored timestamps; Hours is rounded to
// two decimals — rounding happens only at this reporting boundary.
type DayHours struct {
	Date  string
	Hours decimal.Decimal
}

// ReportService reconstructs entry/exit pairs from the chronological event
// stream and derives worked-hour figures.
//
// Pairing policy: an entry opens (or overwrites — last entry wins) the pending
// slot; an exit closes it into a pair; an exit with no pending entry is
// dropped; a trailing open entry contributes nothing until the employee
// clocks out.
type ReportService interface {
	ComputePairs(ctx context.Context, documentID string, start, end *time.Time) ([]Pair, error)
	TotalHours(ctx context.Context, documentID string, start, end *time.Time) (float64, error)
	PerDayBreakdown(ctx context.Context, documentID string, start, end *time.Time) ([]DayHours, error)
}

type reportService struct {
	checkins repository.CheckInRepository
}

func NewReportService(checkins repository.CheckInRepository) ReportService {
	return &reportService{checkins: checkins}
}

func (s *reportService) ComputePairs(ctx context.Context, documentID string, start, end *time.Time) ([]Pair, error) {
	events, err := s.checkins.ListByEmployee(ctx, model.NormalizeDocumentID(documentID), start, end)
	if err != nil {
		return nil, err
	}

	var pairs []Pair
	var pending *model.CheckIn
	for i := range events {
		ev := events[i]
		switch ev.Type {
		case model.CheckTypeEntry:
			pending = &events[i]
		case model.CheckTypeExit:
			if pending != nil {
				pairs = append(pairs, Pair{Entry: *pending, Exit: ev})
				pending = nil
			}
		}
	}
	return pairs, nil
}

func (s *reportService) TotalHours(ctx context.Context, documentID string, start, end *time.Time) (float64, error) {
	pairs, err := s.ComputePairs(ctx, documentID, start, end)
	if err != nil {
		return 0, err
	}
	var totalSeconds int64
	for _, p := range pairs {
		totalSeconds += p.Seconds()
	}
	return float64(totalSeconds) / 3600.0, nil
}

func (s *reportService) PerDayBreakdown(ctx context.Context, documentID string, start, end *time.Time) ([]DayHours, error) {
	pairs, err := s.ComputePairs(ctx, documentID, start, end)
	if err != nil {
		return nil, err
	}

	secondsByDate := make(map[string]int64)
	for _, p := range pairs {
		splitAcrossDays(p.Entry.Timestamp, p.Exit.Timestamp, secondsByDate)
	}

	days := make([]DayHours, 0, len(secondsByDate))
	for date, secs := range secondsByDate {
		hours := decimal.NewFromInt(secs).
			Div(decimal.NewFromInt(3600)).
			Round(2)
		days = append(days, DayHours{Date: date, Hours: hours})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days, nil
}

// splitAcrossDays distributes the (entry, exit) interval into day-bounded
// segments: entry up to the next midnight goes to entry's date, full days to
// their own dates, and the final partial segment to exit's date. Midnights are
// taken in the timestamps' own location (UTC as stored).
func splitAcrossDays(entry, exit time.Time, secondsByDate map[string]int64) {
	if !exit.After(entry) {
		return
	}
	cur := entry
	for cur.Before(exit) {
		y, m, d := cur.Date()
		nextMidnight := time.Date(y, m, d, 0, 0, 0, 0, cur.Location()).AddDate(0, 0, 1)
		segEnd := exit
		if nextMidnight.Before(exit) {
			segEnd = nextMidnight
		}
		secondsByDate[cur.Format("2006-01-02")] += int64(segEnd.Sub(cur).Seconds())
		cur = segEnd
	}
}
