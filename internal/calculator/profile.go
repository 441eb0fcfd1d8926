package calculator

import (
	"math"
	"sort"
	"strconv"
	"time"
)

// AssignmentRecord is one item assignment in a participant's history,
// denormalized with the parent item and receipt fields the aggregation
// needs. ShareCount is the item's FULL assignment count, not the count
// within any date filter: peer-share math must reflect the true sharing
// arrangement.
type AssignmentRecord struct {
	ID          string
	ItemID      string
	ItemName    string
	ItemPrice   float64
	ShareCount  int
	ReceiptID   string
	ReceiptName string
	Subtotal    float64
	Delivery    float64
	Tax         float64
	Service     float64
	CreatedAt   time.Time
}

// PaymentRecord is one payment in a participant's history.
type PaymentRecord struct {
	ID          string
	Amount      float64
	ReceiptID   string
	ReceiptName string
	CreatedAt   time.Time
}

// Totals are a participant's aggregated money figures.
// Balance = TotalSpent - TotalPaid.
type Totals struct {
	TotalSpent float64 `json:"totalSpent"`
	TotalPaid  float64 `json:"totalPaid"`
	Balance    float64 `json:"balance"`
}

// PaymentHistory is one payment entry in the profile history.
type PaymentHistory struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	ReceiptID   string    `json:"receiptId"`
	ReceiptName string    `json:"receiptName"`
	Date        time.Time `json:"date"`
}

// ItemHistory is one assigned-item entry in the profile history. BasePrice
// is the pre-fee equal share; FinalPrice includes the proportional fee share.
type ItemHistory struct {
	ItemID      string    `json:"itemId"`
	ItemName    string    `json:"itemName"`
	ReceiptID   string    `json:"receiptId"`
	ReceiptName string    `json:"receiptName"`
	BasePrice   float64   `json:"basePrice"`
	FinalPrice  float64   `json:"finalPrice"`
	AssignedAt  time.Time `json:"assignedAt"`
}

// ProfileHistory groups the raw history entries backing the totals.
type ProfileHistory struct {
	Payments []PaymentHistory `json:"payments"`
	Items    []ItemHistory    `json:"items"`
}

// ItemCount is a per-item-name assignment frequency, purely descriptive.
type ItemCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// MonthlyStat is one YYYY-MM bucket in the monthly series. Ordered carries
// pre-fee base shares only; the series deliberately omits fee redistribution.
type MonthlyStat struct {
	Month   string  `json:"month"`
	Paid    float64 `json:"paid"`
	Ordered float64 `json:"ordered"`
}

// ProfileStats is the full aggregation over a participant's history.
type ProfileStats struct {
	Stats        Totals         `json:"stats"`
	History      ProfileHistory `json:"history"`
	ItemCounts   []ItemCount    `json:"itemCounts"`
	MonthlyStats []MonthlyStat  `json:"monthlyStats"`
}

// ComputeProfile aggregates a participant's assignment and payment history
// into lifetime totals, per-item-name frequencies and a monthly time series.
// Callers supply records already filtered to one participant and, if a
// period applies, to that period's half-open bounds; empty input yields
// all-zero stats, never an error.
func ComputeProfile(assignments []AssignmentRecord, payments []PaymentRecord) (*ProfileStats, error) {
	stats := &ProfileStats{
		History: ProfileHistory{
			Payments: make([]PaymentHistory, 0, len(payments)),
			Items:    make([]ItemHistory, 0, len(assignments)),
		},
	}

	months := make(map[string]*MonthlyStat)
	bucket := func(t time.Time) *MonthlyStat {
		month := t.UTC().Format("2006-01")
		m, ok := months[month]
		if !ok {
			m = &MonthlyStat{Month: month}
			months[month] = m
		}
		return m
	}

	var totalPaid float64
	for _, p := range payments {
		if math.IsNaN(p.Amount) {
			return nil, invalidf("payment %q has NaN amount", p.ID)
		}
		if p.Amount < 0 {
			return nil, invalidf("payment %q has negative amount %v", p.ID, p.Amount)
		}
		totalPaid += p.Amount
		bucket(p.CreatedAt).Paid += p.Amount
		stats.History.Payments = append(stats.History.Payments, PaymentHistory{
			ID:          p.ID,
			Amount:      p.Amount,
			ReceiptID:   p.ReceiptID,
			ReceiptName: p.ReceiptName,
			Date:        p.CreatedAt,
		})
	}

	var totalSpent float64
	counts := make(map[string]int)
	for _, as := range assignments {
		if math.IsNaN(as.ItemPrice) {
			return nil, invalidf("item %q has NaN price", as.ItemName)
		}
		if as.ItemPrice < 0 {
			return nil, invalidf("item %q has negative price %v", as.ItemName, as.ItemPrice)
		}
		if as.ShareCount < 1 {
			return nil, invalidf("assignment %q has share count %d", as.ID, as.ShareCount)
		}

		basePrice := as.ItemPrice / float64(as.ShareCount)
		finalPrice := feeAdjusted(basePrice, as.Tax+as.Delivery+as.Service, as.Subtotal)
		totalSpent += finalPrice

		counts[as.ItemName]++
		bucket(as.CreatedAt).Ordered += basePrice
		stats.History.Items = append(stats.History.Items, ItemHistory{
			ItemID:      as.ItemID,
			ItemName:    as.ItemName,
			ReceiptID:   as.ReceiptID,
			ReceiptName: as.ReceiptName,
			BasePrice:   basePrice,
			FinalPrice:  finalPrice,
			AssignedAt:  as.CreatedAt,
		})
	}

	stats.Stats = Totals{
		TotalSpent: round2(totalSpent),
		TotalPaid:  round2(totalPaid),
		Balance:    round2(totalSpent - totalPaid),
	}

	stats.ItemCounts = make([]ItemCount, 0, len(counts))
	for name, count := range counts {
		stats.ItemCounts = append(stats.ItemCounts, ItemCount{Name: name, Count: count})
	}
	sort.Slice(stats.ItemCounts, func(i, j int) bool {
		if stats.ItemCounts[i].Count != stats.ItemCounts[j].Count {
			return stats.ItemCounts[i].Count > stats.ItemCounts[j].Count
		}
		return stats.ItemCounts[i].Name < stats.ItemCounts[j].Name
	})

	stats.MonthlyStats = make([]MonthlyStat, 0, len(months))
	for _, m := range months {
		stats.MonthlyStats = append(stats.MonthlyStats, *m)
	}
	// Most recent month first.
	sort.Slice(stats.MonthlyStats, func(i, j int) bool {
		return stats.MonthlyStats[i].Month > stats.MonthlyStats[j].Month
	})

	return stats, nil
}

// Period is an optional (year, month) aggregation window.
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod validates a year/month pair.
func NewPeriod(year, month int) (Period, error) {
	if year < 1 {
		return Period{}, invalidf("year %d is out of range", year)
	}
	if month < 1 || month > 12 {
		return Period{}, invalidf("month %d is out of range", month)
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// ParsePeriod interprets the optional year/month query values. Both empty
// means no period; exactly one present is a validation failure.
func ParsePeriod(yearStr, monthStr string) (*Period, error) {
	if yearStr == "" && monthStr == "" {
		return nil, nil
	}
	if yearStr == "" || monthStr == "" {
		return nil, invalidf("year and month must be supplied together")
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return nil, invalidf("year %q is not a number", yearStr)
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return nil, invalidf("month %q is not a number", monthStr)
	}
	p, err := NewPeriod(year, month)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Bounds returns the half-open UTC interval [firstOfMonth, firstOfNextMonth)
// covered by the period. A period with no matching records simply yields
// all-zero stats downstream.
func (p Period) Bounds() (time.Time, time.Time) {
	start := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
