// internal/models/entities.go
package models

import "time"

// Customer is an agency customer. Relations the renderer needs (family,
// policies) must be loaded by the caller before a dispatch; the
// notification core never fetches.
type Customer struct {
	ID                      string     `json:"id"`
	Name                    string     `json:"name"`
	Email                   string     `json:"email"`
	Mobile                  string     `json:"mobile"`
	WhatsAppNumber          string     `json:"whatsappNumber"`
	DateOfBirth             *time.Time `json:"dateOfBirth"`
	WeddingAnniversaryDate  *time.Time `json:"weddingAnniversaryDate"`
	EngagementAnniversary   *time.Time `json:"engagementAnniversaryDate"`
	CreatedAt               time.Time  `json:"createdAt"`
}

// ContactFor returns the customer's address for the given channel, or ""
// when the contact channel is absent.
func (c *Customer) ContactFor(channel string) string {
	if c == nil {
		return ""
	}
	switch channel {
	case ChannelEmail:
		return c.Email
	case ChannelWhatsApp:
		if c.WhatsAppNumber != "" {
			return c.WhatsAppNumber
		}
		return c.Mobile
	case ChannelSMS:
		return c.Mobile
	}
	return ""
}

// Policy is an insurance policy sold through the agency.
type Policy struct {
	ID               string     `json:"id"`
	PolicyNumber     string     `json:"policyNumber"`
	InsuranceCompany string     `json:"insuranceCompany"`
	PremiumAmount    float64    `json:"premiumAmount"`
	StartDate        *time.Time `json:"startDate"`
	ExpiryDate       *time.Time `json:"expiryDate"`
	VehicleNumber    string     `json:"vehicleNumber"`
	RegistrationNo   string     `json:"registrationNo"`
	Customer         *Customer  `json:"customer"`
}

// ClaimDocument is one document requested for a claim.
type ClaimDocument struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	IsSubmitted bool      `json:"isSubmitted"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Claim is a claim raised against a policy.
type Claim struct {
	ID          string          `json:"id"`
	ClaimNumber string          `json:"claimNumber"`
	StageName   string          `json:"stageName"`
	Policy      *Policy         `json:"policy"`
	Customer    *Customer       `json:"customer"`
	Documents   []ClaimDocument `json:"documents"`
}

// QuotationCompany is one company's quote inside a quotation.
type QuotationCompany struct {
	ID            string  `json:"id"`
	CompanyName   string  `json:"companyName"`
	PremiumAmount float64 `json:"premiumAmount"`
}

// Quotation is a multi-company premium comparison prepared for a customer.
type Quotation struct {
	ID        string             `json:"id"`
	Customer  *Customer          `json:"customer"`
	Companies []QuotationCompany `json:"companies"`
}

// BestQuote returns the quote with the minimum premium. Ties resolve to
// the first-encountered quote. Returns nil when there are no quotes.
func (q *Quotation) BestQuote() *QuotationCompany {
	if q == nil || len(q.Companies) == 0 {
		return nil
	}
	best := &q.Companies[0]
	for i := 1; i < len(q.Companies); i++ {
		if q.Companies[i].PremiumAmount < best.PremiumAmount {
			best = &q.Companies[i]
		}
	}
	return best
}
