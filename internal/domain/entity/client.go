package entity

// ClientInfo is the billed party. Edits replace the whole value.
type ClientInfo struct {
	CompanyName    string `json:"companyName"`
	TRNNumber      string `json:"trnNumber"`
	ContactPerson  string `json:"contactPerson"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	BillingAddress string `json:"billingAddress"`
}

// ClientInfoPatch is a partial update of ClientInfo. Nil fields are left as they are.
type ClientInfoPatch struct {
	CompanyName    *string `json:"companyName,omitempty"`
	TRNNumber      *string `json:"trnNumber,omitempty"`
	ContactPerson  *string `json:"contactPerson,omitempty"`
	Email          *string `json:"email,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	BillingAddress *string `json:"billingAddress,omitempty"`
}

// Apply returns a copy of c with the patched fields set
func (p ClientInfoPatch) Apply(c ClientInfo) ClientInfo {
	setString(&c.CompanyName, p.CompanyName)
	setString(&c.TRNNumber, p.TRNNumber)
	setString(&c.ContactPerson, p.ContactPerson)
	setString(&c.Email, p.Email)
	setString(&c.Phone, p.Phone)
	setString(&c.BillingAddress, p.BillingAddress)
	return c
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
