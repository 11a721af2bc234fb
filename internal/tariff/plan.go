// Package tariff holds the pricing policies mapping consumed units to a
// charge. Amounts are integer cents; tiers are graduated, so each bracket
// prices only the units that fall inside it.
package tariff

import "errors"

// Code identifies a tariff plan.
type Code string

const (
	CodeDomestic   Code = "domestic"
	CodeCommercial Code = "commercial"
)

// Peak-hour consumption is surcharged multiplicatively on the base charge.
const (
	peakMultiplierNum = 120
	peakMultiplierDen = 100
)

var ErrUnknownPlan = errors.New("unknown_plan")

// Tier is a consumption bracket with its own per-unit rate. UpTo is the
// inclusive upper bound of the bracket; nil means unbounded.
type Tier struct {
	UpTo            *int64
	UnitAmountCents int64
}

// Plan prices a unit count under graduated tiers.
type Plan struct {
	code  Code
	name  string
	tiers []Tier
}

func (p Plan) Code() Code   { return p.code }
func (p Plan) Name() string { return p.name }

// Charge computes the graduated charge for the consumed units. Negative unit
// counts clamp to zero.
func (p Plan) Charge(units int64) int64 {
	if units <= 0 {
		return 0
	}

	var amount int64
	var priced int64
	for _, tier := range p.tiers {
		span := units - priced
		if tier.UpTo != nil {
			width := *tier.UpTo - priced
			if span > width {
				span = width
			}
		}
		if span <= 0 {
			break
		}
		amount += span * tier.UnitAmountCents
		priced += span
		if priced >= units {
			break
		}
	}
	return amount
}

// ChargeAt computes the charge with the peak-hour surcharge applied when peak
// is true.
func (p Plan) ChargeAt(units int64, peak bool) int64 {
	amount := p.Charge(units)
	if peak {
		amount = amount * peakMultiplierNum / peakMultiplierDen
	}
	return amount
}

// Domestic is the residential plan: 150c up to 100 units, 250c up to 300,
// 400c beyond.
func Domestic() Plan {
	return Plan{
		code: CodeDomestic,
		name: "Domestic",
		tiers: []Tier{
			{UpTo: int64Ptr(100), UnitAmountCents: 150},
			{UpTo: int64Ptr(300), UnitAmountCents: 250},
			{UpTo: nil, UnitAmountCents: 400},
		},
	}
}

// Commercial is the business plan: 300c up to 100 units, 500c up to 300,
// 700c beyond.
func Commercial() Plan {
	return Plan{
		code: CodeCommercial,
		name: "Commercial",
		tiers: []Tier{
			{UpTo: int64Ptr(100), UnitAmountCents: 300},
			{UpTo: int64Ptr(300), UnitAmountCents: 500},
			{UpTo: nil, UnitAmountCents: 700},
		},
	}
}

func int64Ptr(v int64) *int64 { return &v }
