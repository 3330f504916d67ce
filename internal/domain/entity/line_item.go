package entity

import "strings"

// LineItem is one billable row. Total is derived from UnitPrice and Quantity
// and is only ever written by the totals engine.
type LineItem struct {
	ID              string   `json:"id"`
	Description     string   `json:"description"`
	SubDescriptions []string `json:"subDescriptions"`
	UnitPrice       *float64 `json:"unitPrice,omitempty"`
	Quantity        int      `json:"quantity"`
	Total           float64  `json:"total"`
}

// LineItemDraft is a line item before it gets an id and a total
type LineItemDraft struct {
	Description     string   `json:"description"`
	SubDescriptions []string `json:"subDescriptions"`
	UnitPrice       *float64 `json:"unitPrice,omitempty"`
	Quantity        int      `json:"quantity"`
}

// LineItemPatch is a partial update of a LineItem.
// ClearUnitPrice removes the price; it wins over UnitPrice.
type LineItemPatch struct {
	Description     *string   `json:"description,omitempty"`
	SubDescriptions *[]string `json:"subDescriptions,omitempty"`
	UnitPrice       *float64  `json:"unitPrice,omitempty"`
	ClearUnitPrice  bool      `json:"clearUnitPrice,omitempty"`
	Quantity        *int      `json:"quantity,omitempty"`
}

// Clone returns a deep copy of the item
func (li LineItem) Clone() LineItem {
	out := li
	out.SubDescriptions = cloneStrings(li.SubDescriptions)
	if li.UnitPrice != nil {
		price := *li.UnitPrice
		out.UnitPrice = &price
	}
	return out
}

// NewLineItem builds an item from a draft. The caller sets Total.
func NewLineItem(id string, d LineItemDraft) LineItem {
	item := LineItem{
		ID:              id,
		Description:     d.Description,
		SubDescriptions: cloneStrings(d.SubDescriptions),
		Quantity:        d.Quantity,
	}
	if d.UnitPrice != nil {
		price := *d.UnitPrice
		item.UnitPrice = &price
	}
	return item
}

// Apply returns a copy of li with the patched fields set. Total is left stale.
func (p LineItemPatch) Apply(li LineItem) LineItem {
	out := li.Clone()
	setString(&out.Description, p.Description)
	if p.SubDescriptions != nil {
		out.SubDescriptions = cloneStrings(*p.SubDescriptions)
	}
	switch {
	case p.ClearUnitPrice:
		out.UnitPrice = nil
	case p.UnitPrice != nil:
		price := *p.UnitPrice
		out.UnitPrice = &price
	}
	if p.Quantity != nil {
		out.Quantity = *p.Quantity
	}
	return out
}

// ParseSubDescriptions splits multi-line input into trimmed, non-empty lines
func ParseSubDescriptions(text string) []string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Float returns a pointer to v, for optional prices
func Float(v float64) *float64 {
	return &v
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
