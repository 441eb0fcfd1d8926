package calculator

import (
	"math"
	"reflect"
	"testing"
	"time"
)

func assignmentAt(t time.Time) AssignmentRecord {
	return AssignmentRecord{
		ID:          "a1",
		ItemID:      "i1",
		ItemName:    "Burger",
		ItemPrice:   24,
		ShareCount:  2,
		ReceiptID:   "r1",
		ReceiptName: "Dinner",
		Subtotal:    100,
		Tax:         10,
		CreatedAt:   t,
	}
}

func TestComputeProfileTotals(t *testing.T) {
	march := time.Date(2024, time.March, 12, 18, 30, 0, 0, time.UTC)
	april := time.Date(2024, time.April, 2, 12, 0, 0, 0, time.UTC)

	assignments := []AssignmentRecord{
		// Burger shared by two: base 12, fee share 10 * (12/100) = 1.2
		assignmentAt(march),
		{
			ID: "a2", ItemID: "i2", ItemName: "Fries", ItemPrice: 8, ShareCount: 1,
			ReceiptID: "r1", ReceiptName: "Dinner",
			Subtotal: 100, Tax: 10,
			CreatedAt: march,
		},
	}
	payments := []PaymentRecord{
		{ID: "p1", Amount: 15, ReceiptID: "r1", ReceiptName: "Dinner", CreatedAt: april},
	}

	stats, err := ComputeProfile(assignments, payments)
	if err != nil {
		t.Fatalf("ComputeProfile failed: %v", err)
	}

	// Burger final 13.2, Fries final 8 + 10*(8/100) = 8.8, total 22.0
	if math.Abs(stats.Stats.TotalSpent-22.0) > 0.01 {
		t.Errorf("TotalSpent = %v, want 22.0", stats.Stats.TotalSpent)
	}
	if math.Abs(stats.Stats.TotalPaid-15.0) > 0.01 {
		t.Errorf("TotalPaid = %v, want 15.0", stats.Stats.TotalPaid)
	}
	if math.Abs(stats.Stats.Balance-7.0) > 0.01 {
		t.Errorf("Balance = %v, want 7.0", stats.Stats.Balance)
	}

	if len(stats.History.Items) != 2 || len(stats.History.Payments) != 1 {
		t.Errorf("history lengths = %d items, %d payments; want 2 and 1",
			len(stats.History.Items), len(stats.History.Payments))
	}
	if math.Abs(stats.History.Items[0].BasePrice-12.0) > 1e-9 {
		t.Errorf("Burger base price = %v, want 12.0", stats.History.Items[0].BasePrice)
	}
	if math.Abs(stats.History.Items[0].FinalPrice-13.2) > 1e-9 {
		t.Errorf("Burger final price = %v, want 13.2", stats.History.Items[0].FinalPrice)
	}
}

func TestComputeProfileMonthlySeries(t *testing.T) {
	jan := time.Date(2024, time.January, 20, 9, 0, 0, 0, time.UTC)
	feb := time.Date(2024, time.February, 3, 21, 0, 0, 0, time.UTC)

	assignments := []AssignmentRecord{
		assignmentAt(jan),
		assignmentAt(feb),
	}
	payments := []PaymentRecord{
		{ID: "p1", Amount: 40, ReceiptID: "r1", CreatedAt: feb},
	}

	stats, err := ComputeProfile(assignments, payments)
	if err != nil {
		t.Fatalf("ComputeProfile failed: %v", err)
	}

	want := []MonthlyStat{
		{Month: "2024-02", Paid: 40, Ordered: 12},
		{Month: "2024-01", Paid: 0, Ordered: 12},
	}
	if !reflect.DeepEqual(stats.MonthlyStats, want) {
		t.Errorf("MonthlyStats = %+v, want %+v", stats.MonthlyStats, want)
	}
}

func TestComputeProfileItemCounts(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	assignments := []AssignmentRecord{
		assignmentAt(now),
		assignmentAt(now),
		{
			ID: "a3", ItemID: "i3", ItemName: "Cola", ItemPrice: 3, ShareCount: 1,
			ReceiptID: "r2", Subtotal: 3, CreatedAt: now,
		},
	}

	stats, err := ComputeProfile(assignments, nil)
	if err != nil {
		t.Fatalf("ComputeProfile failed: %v", err)
	}

	want := []ItemCount{
		{Name: "Burger", Count: 2},
		{Name: "Cola", Count: 1},
	}
	if !reflect.DeepEqual(stats.ItemCounts, want) {
		t.Errorf("ItemCounts = %+v, want %+v", stats.ItemCounts, want)
	}
}

func TestComputeProfileEmptyInput(t *testing.T) {
	stats, err := ComputeProfile(nil, nil)
	if err != nil {
		t.Fatalf("ComputeProfile failed: %v", err)
	}
	if stats.Stats.TotalSpent != 0 || stats.Stats.TotalPaid != 0 || stats.Stats.Balance != 0 {
		t.Errorf("expected all-zero totals, got %+v", stats.Stats)
	}
	if len(stats.History.Payments) != 0 || len(stats.History.Items) != 0 {
		t.Errorf("expected empty histories, got %+v", stats.History)
	}
	if len(stats.ItemCounts) != 0 || len(stats.MonthlyStats) != 0 {
		t.Errorf("expected empty series, got counts=%v monthly=%v", stats.ItemCounts, stats.MonthlyStats)
	}
}

func TestComputeProfileUsesFullShareCount(t *testing.T) {
	// Even when the caller filtered the record set by date, ShareCount
	// reflects everyone who shared the item, so the division is unchanged.
	now := time.Date(2024, time.May, 5, 0, 0, 0, 0, time.UTC)
	assignments := []AssignmentRecord{
		{
			ID: "a1", ItemID: "i1", ItemName: "Hotpot", ItemPrice: 90, ShareCount: 3,
			ReceiptID: "r1", Subtotal: 90, CreatedAt: now,
		},
	}

	stats, err := ComputeProfile(assignments, nil)
	if err != nil {
		t.Fatalf("ComputeProfile failed: %v", err)
	}
	if math.Abs(stats.History.Items[0].BasePrice-30.0) > 1e-9 {
		t.Errorf("base price = %v, want 30.0", stats.History.Items[0].BasePrice)
	}
}

func TestComputeProfileInvalidRecords(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name        string
		assignments []AssignmentRecord
		payments    []PaymentRecord
	}{
		{
			name: "zero share count",
			assignments: []AssignmentRecord{
				{ID: "a1", ItemName: "X", ItemPrice: 10, ShareCount: 0, CreatedAt: now},
			},
		},
		{
			name: "negative item price",
			assignments: []AssignmentRecord{
				{ID: "a1", ItemName: "X", ItemPrice: -5, ShareCount: 1, CreatedAt: now},
			},
		},
		{
			name: "NaN payment",
			payments: []PaymentRecord{
				{ID: "p1", Amount: math.NaN(), CreatedAt: now},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ComputeProfile(tt.assignments, tt.payments); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name     string
		year     string
		month    string
		wantNil  bool
		wantErr  bool
		wantYear int
	}{
		{name: "both empty", year: "", month: "", wantNil: true},
		{name: "valid pair", year: "2024", month: "7", wantYear: 2024},
		{name: "year only", year: "2024", month: "", wantErr: true},
		{name: "month only", year: "", month: "7", wantErr: true},
		{name: "month out of range", year: "2024", month: "13", wantErr: true},
		{name: "non-numeric year", year: "twenty", month: "7", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePeriod(tt.year, tt.month)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePeriod() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.wantNil {
				if p != nil {
					t.Errorf("expected nil period, got %+v", p)
				}
				return
			}
			if p.Year != tt.wantYear {
				t.Errorf("year = %d, want %d", p.Year, tt.wantYear)
			}
		})
	}
}

func TestPeriodBounds(t *testing.T) {
	p, err := NewPeriod(2024, 12)
	if err != nil {
		t.Fatalf("NewPeriod failed: %v", err)
	}
	start, end := p.Bounds()
	if !start.Equal(time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}
}
