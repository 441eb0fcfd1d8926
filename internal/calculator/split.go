// Package calculator implements the expense-split and balance-computation
// engine: pure, deterministic arithmetic that turns one receipt's items,
// assignments and payments into per-participant spent/paid/owes figures, and
// aggregates a participant's history into profile statistics.
//
// The package performs no I/O and keeps no state; callers hand it a fully
// materialized snapshot and format the result for transport themselves.
package calculator

import (
	"math"
	"sort"
	"time"
)

// Receipt is the full input graph for one split computation.
type Receipt struct {
	ID       string
	Name     string
	Subtotal float64
	Delivery float64
	Tax      float64
	Service  float64
	Total    float64
	Items    []Item
	Payments []Payment
}

// Item is a single line on a receipt. Price is the item's total allocated
// price; multi-quantity lines are flattened upstream so every item here
// carries quantity one.
type Item struct {
	ID          string
	Name        string
	Price       float64
	Assignments []Assignment
}

// Assignment links an item to exactly one participant.
type Assignment struct {
	ID          string
	Participant Participant
	CreatedAt   time.Time
}

// Payment records money a participant put toward a receipt.
type Payment struct {
	ID          string
	Participant Participant
	Amount      float64
	CreatedAt   time.Time
}

// ParticipantShare is one participant's line in a split report.
// Owes = Spent - Paid; positive means they are in debt to the group.
type ParticipantShare struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Type  ParticipantKind `json:"type"`
	Spent float64         `json:"spent"`
	Paid  float64         `json:"paid"`
	Owes  float64         `json:"owes"`
}

// SplitReport is the outcome of splitting one receipt.
type SplitReport struct {
	ReceiptID    string             `json:"receiptId"`
	Total        float64            `json:"total"`
	Participants []ParticipantShare `json:"participants"`
}

type runningShare struct {
	participant Participant
	spent       float64
	paid        float64
}

// ComputeSplit calculates who owes what for a single receipt.
//
// Each item's price divides equally among its assignees; items nobody claimed
// contribute nothing. Fees (tax + delivery + service) then spread across
// participants in proportion to base spend over subtotal. Payments accrue as
// paid without fee adjustment. Every participant seen in an assignment or a
// payment appears exactly once in the report, even with spent or paid at
// zero. Amounts are rounded to 2 decimals only at emission, and participants
// are ordered by identity key so identical inputs produce identical reports.
func ComputeSplit(receipt *Receipt) (*SplitReport, error) {
	shares := make(map[string]*runningShare)

	accrue := func(p Participant) (*runningShare, error) {
		if err := p.validate(); err != nil {
			return nil, err
		}
		key := p.Key()
		share, ok := shares[key]
		if !ok {
			share = &runningShare{participant: p}
			shares[key] = share
		}
		return share, nil
	}

	// Base spend per item, divided equally among assignees.
	for _, item := range receipt.Items {
		if math.IsNaN(item.Price) {
			return nil, invalidf("item %q has NaN price", item.Name)
		}
		if item.Price < 0 {
			return nil, invalidf("item %q has negative price %v", item.Name, item.Price)
		}
		if len(item.Assignments) == 0 {
			continue // orphaned cost, excluded from every total
		}

		perPerson := item.Price / float64(len(item.Assignments))
		for _, as := range item.Assignments {
			share, err := accrue(as.Participant)
			if err != nil {
				return nil, err
			}
			share.spent += perPerson
		}
	}

	// Proportional fee distribution over accrued base spend.
	fees := receipt.Tax + receipt.Delivery + receipt.Service
	for _, share := range shares {
		share.spent = feeAdjusted(share.spent, fees, receipt.Subtotal)
	}

	// Payments never receive a fee share.
	for _, pay := range receipt.Payments {
		if math.IsNaN(pay.Amount) {
			return nil, invalidf("payment by %q has NaN amount", pay.Participant.Name)
		}
		if pay.Amount < 0 {
			return nil, invalidf("payment by %q has negative amount %v", pay.Participant.Name, pay.Amount)
		}
		share, err := accrue(pay.Participant)
		if err != nil {
			return nil, err
		}
		share.paid += pay.Amount
	}

	keys := make([]string, 0, len(shares))
	for key := range shares {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	report := &SplitReport{
		ReceiptID:    receipt.ID,
		Total:        receipt.Total,
		Participants: make([]ParticipantShare, 0, len(keys)),
	}
	for _, key := range keys {
		share := shares[key]
		spent := round2(share.spent)
		paid := round2(share.paid)
		report.Participants = append(report.Participants, ParticipantShare{
			ID:    share.participant.ID,
			Name:  share.participant.Name,
			Type:  share.participant.Kind,
			Spent: spent,
			Paid:  paid,
			Owes:  round2(spent - paid),
		})
	}
	return report, nil
}
