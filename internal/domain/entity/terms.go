package entity

// TermsConditions holds the payment instructions printed on the document
type TermsConditions struct {
	BankName        string `json:"bankName"`
	AccountName     string `json:"accountName"`
	AccountNumber   string `json:"accountNumber"`
	IBAN            string `json:"iban"`
	SwiftCode       string `json:"swiftCode,omitempty"`
	AdditionalNotes string `json:"additionalNotes,omitempty"`
}

// TermsPatch is a partial update of TermsConditions
type TermsPatch struct {
	BankName        *string `json:"bankName,omitempty"`
	AccountName     *string `json:"accountName,omitempty"`
	AccountNumber   *string `json:"accountNumber,omitempty"`
	IBAN            *string `json:"iban,omitempty"`
	SwiftCode       *string `json:"swiftCode,omitempty"`
	AdditionalNotes *string `json:"additionalNotes,omitempty"`
}

// DefaultTerms returns the boilerplate banking terms
func DefaultTerms() TermsConditions {
	return TermsConditions{
		BankName:        DefaultBankName,
		AccountName:     DefaultAccountName,
		AccountNumber:   DefaultAccountNumber,
		IBAN:            DefaultIBAN,
		AdditionalNotes: DefaultNotes,
	}
}

// Apply returns a copy of t with the patched fields set
func (p TermsPatch) Apply(t TermsConditions) TermsConditions {
	setString(&t.BankName, p.BankName)
	setString(&t.AccountName, p.AccountName)
	setString(&t.AccountNumber, p.AccountNumber)
	setString(&t.IBAN, p.IBAN)
	setString(&t.SwiftCode, p.SwiftCode)
	setString(&t.AdditionalNotes, p.AdditionalNotes)
	return t
}
