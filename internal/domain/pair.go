// Package domain defines core data structures shared by the purchase pipeline.
package domain

// Pair is a BASE/QUOTE trading pair.
type Pair struct {
	// Base is the asset being bought or sold.
	Base string
	// Quote is the currency the trade is priced and paid in.
	Quote string
}

// String returns the canonical BASE/QUOTE representation.
func (p Pair) String() string {
	return p.Base + "/" + p.Quote
}

// Symbol returns the concatenated symbol the exchanges expect.
func (p Pair) Symbol() string {
	return p.Base + p.Quote
}
