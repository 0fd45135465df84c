// internal/notify/context.go
package notify

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"agency-notify/internal/models"
	"agency-notify/internal/settings"
)

// SourceKind tags the entity a notification is rendered from.
type SourceKind int

const (
	SourceCustomer SourceKind = iota
	SourcePolicy
	SourceClaim
	SourceQuotation
)

func (k SourceKind) String() string {
	switch k {
	case SourceCustomer:
		return "customer"
	case SourcePolicy:
		return "policy"
	case SourceClaim:
		return "claim"
	case SourceQuotation:
		return "quotation"
	}
	return "unknown"
}

// Source is the per-render value object: one tagged source entity plus
// whatever related entities the caller loaded alongside it. The core
// never fetches; absent relations resolve to empty variables.
type Source struct {
	Kind      SourceKind
	Customer  *models.Customer
	Policy    *models.Policy
	Claim     *models.Claim
	Quotation *models.Quotation
}

func CustomerSource(c *models.Customer) Source {
	return Source{Kind: SourceCustomer, Customer: c}
}

func PolicySource(p *models.Policy) Source {
	return Source{Kind: SourcePolicy, Policy: p}
}

func ClaimSource(c *models.Claim) Source {
	return Source{Kind: SourceClaim, Claim: c}
}

func QuotationSource(q *models.Quotation) Source {
	return Source{Kind: SourceQuotation, Quotation: q}
}

// Recipient returns the customer whose contact details receive the
// notification, for any source kind.
func (s Source) Recipient() *models.Customer {
	switch s.Kind {
	case SourceCustomer:
		return s.Customer
	case SourcePolicy:
		if s.Policy != nil {
			return s.Policy.Customer
		}
	case SourceClaim:
		if s.Claim != nil {
			return s.Claim.Customer
		}
	case SourceQuotation:
		if s.Quotation != nil {
			return s.Quotation.Customer
		}
	}
	return nil
}

// NoPendingDocuments is the rendered value of pending_documents_list when
// a claim has nothing outstanding.
const NoPendingDocuments = "No pending documents."

// ContextBuilder assembles the flat variable mapping consumed by the
// renderer. It is a pure function of the source entity graph plus the
// settings provider.
type ContextBuilder struct {
	settings settings.Provider
	now      func() time.Time
}

func NewContextBuilder(provider settings.Provider) *ContextBuilder {
	return &ContextBuilder{
		settings: provider,
		now:      time.Now,
	}
}

// Build resolves every variable for the source. Missing data resolves to
// an empty string, never an error.
func (b *ContextBuilder) Build(ctx context.Context, src Source) map[string]string {
	vars := b.companyVars(ctx)

	if c := src.Recipient(); c != nil {
		vars["customer_name"] = c.Name
	} else {
		vars["customer_name"] = ""
	}

	switch src.Kind {
	case SourceCustomer:
		b.customerVars(vars, src.Customer)
	case SourcePolicy:
		b.policyVars(vars, src.Policy)
	case SourceClaim:
		b.claimVars(vars, src.Claim)
	case SourceQuotation:
		b.quotationVars(vars, src.Quotation)
	}

	return vars
}

func (b *ContextBuilder) companyVars(ctx context.Context) map[string]string {
	return map[string]string{
		"company_name":    b.settings.GetString(ctx, models.SettingCategoryCompany, models.SettingKeyCompanyName, ""),
		"company_phone":   b.settings.GetString(ctx, models.SettingCategoryCompany, models.SettingKeyCompanyPhone, ""),
		"company_website": b.settings.GetString(ctx, models.SettingCategoryCompany, models.SettingKeyCompanyWebsite, ""),
		"portal_url":      b.settings.GetString(ctx, models.SettingCategoryCompany, models.SettingKeyPortalURL, ""),
	}
}

func (b *ContextBuilder) customerVars(vars map[string]string, c *models.Customer) {
	if c == nil {
		vars["date_of_birth"] = ""
		vars["wedding_anniversary_date"] = ""
		vars["engagement_anniversary_date"] = ""
		return
	}
	vars["date_of_birth"] = FormatDatePtr(c.DateOfBirth)
	vars["wedding_anniversary_date"] = FormatDatePtr(c.WeddingAnniversaryDate)
	vars["engagement_anniversary_date"] = FormatDatePtr(c.EngagementAnniversary)
}

func (b *ContextBuilder) policyVars(vars map[string]string, p *models.Policy) {
	if p == nil {
		for _, key := range []string{
			"policy_number", "insurance_company", "premium_amount",
			"start_date", "expiry_date", "expired_date",
			"vehicle_number", "registration_no", "days_remaining",
		} {
			vars[key] = ""
		}
		return
	}

	vars["policy_number"] = p.PolicyNumber
	vars["insurance_company"] = p.InsuranceCompany
	vars["premium_amount"] = FormatINR(p.PremiumAmount)
	vars["start_date"] = FormatDatePtr(p.StartDate)
	vars["expiry_date"] = FormatDatePtr(p.ExpiryDate)
	vars["expired_date"] = FormatDatePtr(p.ExpiryDate)
	vars["vehicle_number"] = p.VehicleNumber
	vars["registration_no"] = p.RegistrationNo

	if p.ExpiryDate != nil {
		vars["days_remaining"] = strconv.Itoa(DaysRemaining(*p.ExpiryDate, b.now()))
	} else {
		vars["days_remaining"] = ""
	}
}

func (b *ContextBuilder) claimVars(vars map[string]string, c *models.Claim) {
	if c == nil {
		vars["claim_number"] = ""
		vars["policy_number"] = ""
		vars["stage_name"] = ""
		vars["pending_documents_list"] = NoPendingDocuments
		return
	}

	vars["claim_number"] = c.ClaimNumber
	vars["stage_name"] = c.StageName
	if c.Policy != nil {
		vars["policy_number"] = c.Policy.PolicyNumber
	} else {
		vars["policy_number"] = ""
	}
	vars["pending_documents_list"] = pendingDocumentsList(c.Documents)
}

// pendingDocumentsList renders the claim's unsubmitted documents as a
// numbered list in creation order.
func pendingDocumentsList(docs []models.ClaimDocument) string {
	pending := make([]models.ClaimDocument, 0, len(docs))
	for _, d := range docs {
		if !d.IsSubmitted {
			pending = append(pending, d)
		}
	}
	if len(pending) == 0 {
		return NoPendingDocuments
	}

	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})

	out := ""
	for i, d := range pending {
		if i > 0 {
			out += "\n"
		}
		out += fmt.Sprintf("%d. %s", i+1, d.Name)
	}
	return out
}

func (b *ContextBuilder) quotationVars(vars map[string]string, q *models.Quotation) {
	if q == nil {
		vars["quotes_count"] = "0"
		vars["best_company_name"] = ""
		vars["best_premium"] = ""
		vars["comparison_list"] = ""
		return
	}

	vars["quotes_count"] = strconv.Itoa(len(q.Companies))

	if best := q.BestQuote(); best != nil {
		vars["best_company_name"] = best.CompanyName
		vars["best_premium"] = FormatINR(best.PremiumAmount)
	} else {
		vars["best_company_name"] = ""
		vars["best_premium"] = ""
	}

	vars["comparison_list"] = comparisonList(q.Companies)
}

// comparisonList renders every quote sorted ascending by premium.
func comparisonList(quotes []models.QuotationCompany) string {
	ordered := make([]models.QuotationCompany, len(quotes))
	copy(ordered, quotes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PremiumAmount < ordered[j].PremiumAmount
	})

	out := ""
	for i, quote := range ordered {
		if i > 0 {
			out += "\n"
		}
		out += fmt.Sprintf("%d. %s - %s", i+1, quote.CompanyName, FormatINR(quote.PremiumAmount))
	}
	return out
}
