package risk

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/rustyeddy/tradejournal/market"
)

type Mode string

const (
	ModePercent Mode = "percent"
	ModeFixed   Mode = "fixed"
)

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "percent", "pct", "%":
		return ModePercent, nil
	case "fixed", "fixed_amount", "amount", "$":
		return ModeFixed, nil
	}
	return "", fmt.Errorf("unknown risk mode %q", s)
}

type LotClass int

const (
	Nano LotClass = iota
	Micro
	Mini
	Standard
)

func (c LotClass) String() string {
	switch c {
	case Nano:
		return "NANO"
	case Micro:
		return "MICRO"
	case Mini:
		return "MINI"
	default:
		return "STANDARD"
	}
}

func (c LotClass) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// SizingInput is whatever the calculator currently holds. Missing numbers
// are zero. RiskPercent is used in percent mode and RiskAmount in fixed
// mode; the other one is kept so it can be restored later.
type SizingInput struct {
	Balance      float64 `json:"balance"`
	Mode         Mode    `json:"riskMode"`
	RiskPercent  float64 `json:"riskPercent"`
	RiskAmount   float64 `json:"riskAmountFixed"`
	StopLossPips float64 `json:"stopLoss"`
	Pair         string  `json:"pair"`
	RewardRatio  float64 `json:"rewardRatio"`
}

func DefaultSizingInput() SizingInput {
	return SizingInput{
		Mode:        ModePercent,
		RiskPercent: 1,
		Pair:        "EUR/USD",
		RewardRatio: 2,
	}
}

type SizingResult struct {
	RiskAmount      float64  `json:"riskAmount"`
	Lots            float64  `json:"lots"`
	LotClass        LotClass `json:"lotType"`
	Units           float64  `json:"units"`
	PipValue        float64  `json:"pipValue"`
	PotentialProfit float64  `json:"potentialProfit"`
	TakeProfitPips  float64  `json:"takeProfitPips"`
}

// RiskAmountFor is the currency at risk for the input's mode.
func (in SizingInput) RiskAmountFor() float64 {
	if in.Mode == ModeFixed {
		return in.RiskAmount
	}
	return in.Balance * in.RiskPercent / 100
}

// ComputeSizing turns risk inputs into a recommended position. It never
// fails: a zero stop gives zero lots and anything non-finite comes back as
// zero.
//
// Units are always lots * 100,000 regardless of the instrument's own
// contract size. ComputePnL uses the real contract size, so gold and WTI
// sizes are not comparable between the two.
func ComputeSizing(in SizingInput) SizingResult {
	riskAmt := in.RiskAmountFor()
	pipValue := market.Resolve(in.Pair).PipValue

	var lots, units float64
	denominator := in.StopLossPips * pipValue
	if denominator != 0 {
		lots = riskAmt / denominator
		units = lots * market.StandardLot
	}
	if !finite(lots) || !finite(units) {
		lots, units = 0, 0
	}

	return SizingResult{
		RiskAmount:      finiteOr0(riskAmt),
		Lots:            lots,
		LotClass:        ClassifyLots(lots),
		Units:           units,
		PipValue:        pipValue,
		PotentialProfit: finiteOr0(riskAmt * in.RewardRatio),
		TakeProfitPips:  finiteOr0(in.StopLossPips * in.RewardRatio),
	}
}

// ClassifyLots buckets a lot size on half-open boundaries.
func ClassifyLots(lots float64) LotClass {
	switch {
	case lots < 0.01:
		return Nano
	case lots < 0.1:
		return Micro
	case lots < 1.0:
		return Mini
	default:
		return Standard
	}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func finiteOr0(x float64) float64 {
	if finite(x) {
		return x
	}
	return 0
}
