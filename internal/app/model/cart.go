package model

import "sort"

// CartOption is a snapshot of a product option at the time it was added
// to the cart. Prices are frozen here; live option rows may change later.
type CartOption struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// CartLine is one product (plus selected options) in a session cart.
// UnitPrice snapshots the base product price; option premiums are kept
// on the option snapshots so a sync can refresh one without the other.
type CartLine struct {
	ProductID uint         `json:"product_id"`
	Name      string       `json:"name"`
	Image     string       `json:"image,omitempty"`
	UnitPrice int64        `json:"unit_price"`
	Quantity  int          `json:"quantity"`
	Options   []CartOption `json:"options,omitempty"`
}

// LineUnitPrice returns the base price plus all option premiums.
func (l CartLine) LineUnitPrice() int64 {
	price := l.UnitPrice
	for _, opt := range l.Options {
		price += opt.Price
	}
	return price
}

// LineTotal returns the line's contribution to the cart total.
func (l CartLine) LineTotal() int64 {
	return l.LineUnitPrice() * int64(l.Quantity)
}

// MatchesOptions reports whether the line's selected option IDs equal the
// given set, ignoring order. A line without options only matches an empty set.
func (l CartLine) MatchesOptions(optionIDs []uint) bool {
	if len(l.Options) != len(optionIDs) {
		return false
	}
	have := make([]uint, 0, len(l.Options))
	for _, opt := range l.Options {
		have = append(have, opt.ID)
	}
	want := append([]uint(nil), optionIDs...)
	sort.Slice(have, func(i, j int) bool { return have[i] < have[j] })
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
	for i := range have {
		if have[i] != want[i] {
			return false
		}
	}
	return true
}

// Cart is the session-scoped order-in-progress. It is loaded from the
// session store at the start of a request and persisted after every
// mutation; it never lives in the database.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Total recomputes the cart total from the line list.
func (c *Cart) Total() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.LineTotal()
	}
	return total
}

// FindLine returns the index of the line matching the product and option
// set, or -1 when no line matches.
func (c *Cart) FindLine(productID uint, optionIDs []uint) int {
	for i, line := range c.Lines {
		if line.ProductID == productID && line.MatchesOptions(optionIDs) {
			return i
		}
	}
	return -1
}
