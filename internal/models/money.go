package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Cents is a money amount in hundredths. Totals are summed in Cents and only
// turned into a decimal when encoded.
type Cents int64

// ParseAmount reads a decimal money string with at most two fractional
// digits. Malformed or negative values read as zero.
func ParseAmount(s string) Cents {
	if !moneyPattern.MatchString(s) {
		return 0
	}
	whole, frac, _ := strings.Cut(s, ".")
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0
	}
	f, _ := strconv.ParseInt((frac + "00")[:2], 10, 64)
	return Cents(w*100 + f)
}

// Float is the amount in currency units.
func (c Cents) Float() float64 {
	return float64(c) / 100
}

func (c Cents) String() string {
	sign := ""
	if c < 0 {
		sign, c = "-", -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// MarshalJSON encodes the amount as a number with two decimals.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}
