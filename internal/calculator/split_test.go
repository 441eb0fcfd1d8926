package calculator

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func findShare(t *testing.T, report *SplitReport, key string) ParticipantShare {
	t.Helper()
	for _, p := range report.Participants {
		if string(p.Type)+"-"+p.ID == key {
			return p
		}
	}
	t.Fatalf("participant %s missing from report", key)
	return ParticipantShare{}
}

func TestComputeSplit(t *testing.T) {
	tests := []struct {
		name         string
		receipt      *Receipt
		wantErr      bool
		validateFunc func(t *testing.T, report *SplitReport)
	}{
		{
			name: "fee distribution proportional to base spend",
			receipt: &Receipt{
				ID:       "r1",
				Subtotal: 100,
				Tax:      10,
				Service:  5,
				Total:    115,
				Items: []Item{
					{Name: "Steak", Price: 60, Assignments: []Assignment{
						{Participant: UserParticipant("p", "P")},
					}},
					{Name: "Pasta", Price: 40, Assignments: []Assignment{
						{Participant: FriendParticipant("q", "Q")},
					}},
				},
				Payments: []Payment{
					{Participant: UserParticipant("p", "P"), Amount: 50},
				},
			},
			validateFunc: func(t *testing.T, report *SplitReport) {
				// P: base 60, fee share 15 * (60/100) = 9, spent 69, owes 19
				p := findShare(t, report, "user-p")
				if math.Abs(p.Spent-69.0) > 0.01 {
					t.Errorf("P spent = %v, want 69.0", p.Spent)
				}
				if math.Abs(p.Owes-19.0) > 0.01 {
					t.Errorf("P owes = %v, want 19.0", p.Owes)
				}
				// Q: base 40, fee share 6, spent 46, paid 0
				q := findShare(t, report, "friend-q")
				if math.Abs(q.Spent-46.0) > 0.01 {
					t.Errorf("Q spent = %v, want 46.0", q.Spent)
				}
				if math.Abs(q.Owes-46.0) > 0.01 {
					t.Errorf("Q owes = %v, want 46.0", q.Owes)
				}
			},
		},
		{
			name: "shared item splits equally",
			receipt: &Receipt{
				ID:       "r2",
				Subtotal: 40,
				Total:    40,
				Items: []Item{
					{Name: "Platter", Price: 40, Assignments: []Assignment{
						{Participant: UserParticipant("a", "Alice")},
						{Participant: UserParticipant("b", "Bob")},
					}},
				},
			},
			validateFunc: func(t *testing.T, report *SplitReport) {
				for _, key := range []string{"user-a", "user-b"} {
					share := findShare(t, report, key)
					if math.Abs(share.Spent-20.0) > 0.01 {
						t.Errorf("%s spent = %v, want 20.0", key, share.Spent)
					}
				}
			},
		},
		{
			name: "orphan item contributes nothing",
			receipt: &Receipt{
				ID:       "r3",
				Subtotal: 30,
				Tax:      3,
				Total:    33,
				Items: []Item{
					{Name: "Claimed", Price: 10, Assignments: []Assignment{
						{Participant: UserParticipant("a", "Alice")},
					}},
					{Name: "Unclaimed", Price: 20},
				},
			},
			validateFunc: func(t *testing.T, report *SplitReport) {
				if len(report.Participants) != 1 {
					t.Fatalf("expected 1 participant, got %d", len(report.Participants))
				}
				// Alice picks up only her own item's fee fraction: 10 + 3*(10/30) = 11.
				// The orphan's base spend and fee stay unrecovered.
				alice := findShare(t, report, "user-a")
				if math.Abs(alice.Spent-11.0) > 0.01 {
					t.Errorf("Alice spent = %v, want 11.0", alice.Spent)
				}
			},
		},
		{
			name: "payment-only participant appears with negative owes",
			receipt: &Receipt{
				ID:       "r4",
				Subtotal: 25,
				Total:    25,
				Items: []Item{
					{Name: "Lunch", Price: 25, Assignments: []Assignment{
						{Participant: UserParticipant("a", "Alice")},
					}},
				},
				Payments: []Payment{
					{Participant: FriendParticipant("f", "Frank"), Amount: 30},
				},
			},
			validateFunc: func(t *testing.T, report *SplitReport) {
				frank := findShare(t, report, "friend-f")
				if frank.Spent != 0 {
					t.Errorf("Frank spent = %v, want 0", frank.Spent)
				}
				if math.Abs(frank.Paid-30.0) > 0.01 {
					t.Errorf("Frank paid = %v, want 30.0", frank.Paid)
				}
				if math.Abs(frank.Owes-(-30.0)) > 0.01 {
					t.Errorf("Frank owes = %v, want -30.0", frank.Owes)
				}
			},
		},
		{
			name: "zero subtotal clamps fee divisor",
			receipt: &Receipt{
				ID:       "r5",
				Subtotal: 0,
				Tax:      5,
				Total:    5,
				Items: []Item{
					{Name: "Freebie", Price: 0, Assignments: []Assignment{
						{Participant: UserParticipant("a", "Alice")},
					}},
				},
			},
			validateFunc: func(t *testing.T, report *SplitReport) {
				alice := findShare(t, report, "user-a")
				if alice.Spent != 0 {
					t.Errorf("Alice spent = %v, want 0", alice.Spent)
				}
			},
		},
		{
			name: "negative item price rejected",
			receipt: &Receipt{
				ID:       "r6",
				Subtotal: 10,
				Total:    10,
				Items: []Item{
					{Name: "Refund", Price: -4, Assignments: []Assignment{
						{Participant: UserParticipant("a", "Alice")},
					}},
				},
			},
			wantErr: true,
		},
		{
			name: "NaN item price rejected",
			receipt: &Receipt{
				ID:       "r7",
				Subtotal: 10,
				Total:    10,
				Items: []Item{
					{Name: "Broken", Price: math.NaN(), Assignments: []Assignment{
						{Participant: UserParticipant("a", "Alice")},
					}},
				},
			},
			wantErr: true,
		},
		{
			name: "assignment without participant rejected",
			receipt: &Receipt{
				ID:       "r8",
				Subtotal: 10,
				Total:    10,
				Items: []Item{
					{Name: "Ghost", Price: 10, Assignments: []Assignment{
						{Participant: Participant{}},
					}},
				},
			},
			wantErr: true,
		},
		{
			name: "negative payment rejected",
			receipt: &Receipt{
				ID:       "r9",
				Subtotal: 10,
				Total:    10,
				Payments: []Payment{
					{Participant: UserParticipant("a", "Alice"), Amount: -1},
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := ComputeSplit(tt.receipt)
			if (err != nil) != tt.wantErr {
				t.Errorf("ComputeSplit() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Errorf("expected *ValidationError, got %T", err)
				}
				return
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, report)
			}
		})
	}
}

func TestComputeSplitNoPaymentsOwesEqualsSpent(t *testing.T) {
	receipt := &Receipt{
		ID:       "r10",
		Subtotal: 90,
		Tax:      9,
		Delivery: 4.5,
		Total:    103.5,
		Items: []Item{
			{Name: "Sushi", Price: 55, Assignments: []Assignment{
				{Participant: UserParticipant("a", "Alice")},
				{Participant: FriendParticipant("b", "Ben")},
			}},
			{Name: "Tea", Price: 35, Assignments: []Assignment{
				{Participant: FriendParticipant("b", "Ben")},
			}},
		},
	}

	report, err := ComputeSplit(receipt)
	if err != nil {
		t.Fatalf("ComputeSplit failed: %v", err)
	}
	for _, p := range report.Participants {
		if p.Owes != p.Spent {
			t.Errorf("%s owes = %v, want %v (spent)", p.Name, p.Owes, p.Spent)
		}
	}
}

func TestComputeSplitFeeConservation(t *testing.T) {
	// When every item is assigned and prices sum to subtotal, the fee
	// components across participants must sum to tax+delivery+service.
	receipt := &Receipt{
		ID:       "r11",
		Subtotal: 100,
		Tax:      7,
		Delivery: 2,
		Service:  1,
		Total:    110,
		Items: []Item{
			{Name: "A", Price: 33.33, Assignments: []Assignment{
				{Participant: UserParticipant("a", "Alice")},
			}},
			{Name: "B", Price: 33.33, Assignments: []Assignment{
				{Participant: UserParticipant("b", "Bob")},
				{Participant: UserParticipant("c", "Cara")},
			}},
			{Name: "C", Price: 33.34, Assignments: []Assignment{
				{Participant: UserParticipant("c", "Cara")},
			}},
		},
	}

	report, err := ComputeSplit(receipt)
	if err != nil {
		t.Fatalf("ComputeSplit failed: %v", err)
	}
	var spentSum float64
	for _, p := range report.Participants {
		spentSum += p.Spent
	}
	// Total spend = subtotal + fees, within rounding of the three outputs.
	if math.Abs(spentSum-110.0) > 0.02 {
		t.Errorf("sum of spent = %v, want 110.0", spentSum)
	}
}

func TestComputeSplitDeterministic(t *testing.T) {
	receipt := &Receipt{
		ID:       "r12",
		Subtotal: 50,
		Tax:      5,
		Total:    55,
		Items: []Item{
			{Name: "Pad Thai", Price: 30, Assignments: []Assignment{
				{Participant: UserParticipant("u2", "Zoe")},
				{Participant: UserParticipant("u1", "Amir")},
			}},
			{Name: "Rolls", Price: 20, Assignments: []Assignment{
				{Participant: FriendParticipant("f1", "Kit")},
			}},
		},
		Payments: []Payment{
			{Participant: UserParticipant("u1", "Amir"), Amount: 55},
		},
	}

	first, err := ComputeSplit(receipt)
	if err != nil {
		t.Fatalf("ComputeSplit failed: %v", err)
	}
	second, err := ComputeSplit(receipt)
	if err != nil {
		t.Fatalf("ComputeSplit failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calls diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
