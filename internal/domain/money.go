package domain

import "fmt"

// Pesewas is a money amount in Ghanaian minor units (1 cedi = 100 pesewas).
// All price arithmetic happens on this fixed-point type; float64 is never
// used for money.
type Pesewas int64

// Cedis converts a whole-cedi amount to pesewas.
func Cedis(c int64) Pesewas {
	return Pesewas(c * 100)
}

func (p Pesewas) String() string {
	sign := ""
	v := int64(p)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%sGHS %d.%02d", sign, v/100, v%100)
}
