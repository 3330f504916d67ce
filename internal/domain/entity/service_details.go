package entity

// ServiceDetails holds the billed line items and their aggregates.
// Subtotal, VATAmount and NetTotal are derived; callers cannot patch them.
type ServiceDetails struct {
	ProjectName   string     `json:"projectName"`
	LineItems     []LineItem `json:"lineItems"`
	Subtotal      float64    `json:"subtotal"`
	Discount      float64    `json:"discount"`
	VATAmount     float64    `json:"vatAmount"`
	VATPercentage float64    `json:"vatPercentage"`
	NetTotal      float64    `json:"netTotal"`
}

// ServiceDetailsPatch is a partial update of ServiceDetails
type ServiceDetailsPatch struct {
	ProjectName   *string     `json:"projectName,omitempty"`
	LineItems     *[]LineItem `json:"lineItems,omitempty"`
	Discount      *float64    `json:"discount,omitempty"`
	VATPercentage *float64    `json:"vatPercentage,omitempty"`
}

// NewServiceDetails returns empty details at the given VAT rate
func NewServiceDetails(vatPercentage float64) ServiceDetails {
	return ServiceDetails{
		LineItems:     []LineItem{},
		VATPercentage: vatPercentage,
	}
}

// Clone returns a deep copy of the details
func (d ServiceDetails) Clone() ServiceDetails {
	out := d
	out.LineItems = make([]LineItem, len(d.LineItems))
	for i, item := range d.LineItems {
		out.LineItems[i] = item.Clone()
	}
	return out
}

// FindLineItem returns the index of the item with the given id, or -1
func (d ServiceDetails) FindLineItem(id string) int {
	for i, item := range d.LineItems {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Apply returns a copy of d with the patched fields set. Aggregates are left stale.
func (p ServiceDetailsPatch) Apply(d ServiceDetails) ServiceDetails {
	out := d.Clone()
	setString(&out.ProjectName, p.ProjectName)
	if p.LineItems != nil {
		out.LineItems = make([]LineItem, len(*p.LineItems))
		for i, item := range *p.LineItems {
			out.LineItems[i] = item.Clone()
		}
	}
	setFloat(&out.Discount, p.Discount)
	setFloat(&out.VATPercentage, p.VATPercentage)
	return out
}
