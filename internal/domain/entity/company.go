package entity

// CompanyInfo is the issuing company shown in the document header
type CompanyInfo struct {
	Name         string `json:"name"`
	Tagline      string `json:"tagline"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	TRNNumber    string `json:"trnNumber"`
}

// CompanyInfoPatch is a partial update of CompanyInfo
type CompanyInfoPatch struct {
	Name         *string `json:"name,omitempty"`
	Tagline      *string `json:"tagline,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Email        *string `json:"email,omitempty"`
	AddressLine1 *string `json:"addressLine1,omitempty"`
	AddressLine2 *string `json:"addressLine2,omitempty"`
	TRNNumber    *string `json:"trnNumber,omitempty"`
}

// Apply returns a copy of c with the patched fields set
func (p CompanyInfoPatch) Apply(c CompanyInfo) CompanyInfo {
	setString(&c.Name, p.Name)
	setString(&c.Tagline, p.Tagline)
	setString(&c.Phone, p.Phone)
	setString(&c.Email, p.Email)
	setString(&c.AddressLine1, p.AddressLine1)
	setString(&c.AddressLine2, p.AddressLine2)
	setString(&c.TRNNumber, p.TRNNumber)
	return c
}
