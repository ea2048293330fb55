package market

import (
	"fmt"
	"strings"
)

type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToUpper(strings.TrimSpace(s))) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

func (d Direction) Valid() bool {
	return d == Buy || d == Sell
}
