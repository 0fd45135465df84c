// internal/notify/context_test.go
package notify

import (
	"context"
	"testing"
	"time"

	"agency-notify/internal/models"
	"agency-notify/internal/settings"

	"github.com/stretchr/testify/assert"
)

func testBuilder(now time.Time) *ContextBuilder {
	b := NewContextBuilder(settings.Static{
		"company/name":       "Shree Insurance Services",
		"company/phone":      "+91 98765 43210",
		"company/website":    "https://agency.example.com",
		"company/portal_url": "https://portal.agency.example.com",
	})
	b.now = func() time.Time { return now }
	return b
}

func TestBuildCompanyAndCustomerVars(t *testing.T) {
	b := testBuilder(time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC))
	dob := time.Date(1990, time.June, 5, 0, 0, 0, 0, time.UTC)

	vars := b.Build(context.Background(), CustomerSource(&models.Customer{
		Name:        "John Doe",
		DateOfBirth: &dob,
	}))

	assert.Equal(t, "Shree Insurance Services", vars["company_name"])
	assert.Equal(t, "+91 98765 43210", vars["company_phone"])
	assert.Equal(t, "https://portal.agency.example.com", vars["portal_url"])
	assert.Equal(t, "John Doe", vars["customer_name"])
	assert.Equal(t, "5-Jun-1990", vars["date_of_birth"])
	assert.Equal(t, "", vars["wedding_anniversary_date"])
}

func TestBuildPolicyVars(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	b := testBuilder(now)

	start := time.Date(2024, time.March, 22, 0, 0, 0, 0, time.UTC)
	expiry := time.Date(2025, time.March, 22, 0, 0, 0, 0, time.UTC)
	vars := b.Build(context.Background(), PolicySource(&models.Policy{
		PolicyNumber:     "POL-2024-001",
		InsuranceCompany: "National Insurance",
		PremiumAmount:    1500000,
		StartDate:        &start,
		ExpiryDate:       &expiry,
		VehicleNumber:    "MH12AB1234",
		Customer:         &models.Customer{Name: "Jane Roe"},
	}))

	assert.Equal(t, "Jane Roe", vars["customer_name"])
	assert.Equal(t, "POL-2024-001", vars["policy_number"])
	assert.Equal(t, "₹15,00,000", vars["premium_amount"])
	assert.Equal(t, "22-Mar-2024", vars["start_date"])
	assert.Equal(t, "22-Mar-2025", vars["expiry_date"])
	assert.Equal(t, "22-Mar-2025", vars["expired_date"])
	assert.Equal(t, "7", vars["days_remaining"])
	assert.Equal(t, "MH12AB1234", vars["vehicle_number"])
}

func TestBuildPolicyVarsWithoutDates(t *testing.T) {
	b := testBuilder(time.Now())

	vars := b.Build(context.Background(), PolicySource(&models.Policy{
		PolicyNumber: "POL-X",
		Customer:     &models.Customer{Name: "Jane"},
	}))

	assert.Equal(t, "", vars["expiry_date"])
	assert.Equal(t, "", vars["days_remaining"])
}

func TestBuildClaimVars(t *testing.T) {
	b := testBuilder(time.Now())
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	t.Run("pending documents numbered in creation order", func(t *testing.T) {
		vars := b.Build(context.Background(), ClaimSource(&models.Claim{
			ClaimNumber: "CLM-042",
			StageName:   "Survey",
			Policy:      &models.Policy{PolicyNumber: "POL-9"},
			Customer:    &models.Customer{Name: "John"},
			Documents: []models.ClaimDocument{
				{Name: "RC Copy", IsSubmitted: true, CreatedAt: base},
				{Name: "Survey Report", IsSubmitted: false, CreatedAt: base.Add(2 * time.Hour)},
				{Name: "Claim Form", IsSubmitted: false, CreatedAt: base.Add(time.Hour)},
			},
		}))

		assert.Equal(t, "CLM-042", vars["claim_number"])
		assert.Equal(t, "Survey", vars["stage_name"])
		assert.Equal(t, "POL-9", vars["policy_number"])
		assert.Equal(t, "1. Claim Form\n2. Survey Report", vars["pending_documents_list"])
	})

	t.Run("all submitted renders fallback text", func(t *testing.T) {
		vars := b.Build(context.Background(), ClaimSource(&models.Claim{
			ClaimNumber: "CLM-043",
			Customer:    &models.Customer{Name: "John"},
			Documents: []models.ClaimDocument{
				{Name: "RC Copy", IsSubmitted: true, CreatedAt: base},
			},
		}))

		assert.Equal(t, NoPendingDocuments, vars["pending_documents_list"])
	})

	t.Run("no documents renders fallback text", func(t *testing.T) {
		vars := b.Build(context.Background(), ClaimSource(&models.Claim{
			ClaimNumber: "CLM-044",
			Customer:    &models.Customer{Name: "John"},
		}))

		assert.Equal(t, NoPendingDocuments, vars["pending_documents_list"])
	})
}

func TestBuildQuotationVars(t *testing.T) {
	b := testBuilder(time.Now())

	t.Run("comparison sorted ascending by premium", func(t *testing.T) {
		vars := b.Build(context.Background(), QuotationSource(&models.Quotation{
			Customer: &models.Customer{Name: "John"},
			Companies: []models.QuotationCompany{
				{CompanyName: "Insurer B", PremiumAmount: 18000},
				{CompanyName: "Insurer A", PremiumAmount: 12500},
				{CompanyName: "Insurer C", PremiumAmount: 15000},
			},
		}))

		assert.Equal(t, "3", vars["quotes_count"])
		assert.Equal(t, "Insurer A", vars["best_company_name"])
		assert.Equal(t, "₹12,500", vars["best_premium"])
		assert.Equal(t,
			"1. Insurer A - ₹12,500\n2. Insurer C - ₹15,000\n3. Insurer B - ₹18,000",
			vars["comparison_list"])
	})

	t.Run("tie resolves to first quote", func(t *testing.T) {
		vars := b.Build(context.Background(), QuotationSource(&models.Quotation{
			Customer: &models.Customer{Name: "John"},
			Companies: []models.QuotationCompany{
				{CompanyName: "First", PremiumAmount: 10000},
				{CompanyName: "Second", PremiumAmount: 10000},
			},
		}))

		assert.Equal(t, "First", vars["best_company_name"])
	})

	t.Run("empty quotation", func(t *testing.T) {
		vars := b.Build(context.Background(), QuotationSource(&models.Quotation{
			Customer: &models.Customer{Name: "John"},
		}))

		assert.Equal(t, "0", vars["quotes_count"])
		assert.Equal(t, "", vars["best_company_name"])
		assert.Equal(t, "", vars["comparison_list"])
	})
}

func TestSourceRecipient(t *testing.T) {
	customer := &models.Customer{Name: "John"}

	assert.Equal(t, customer, CustomerSource(customer).Recipient())
	assert.Equal(t, customer, PolicySource(&models.Policy{Customer: customer}).Recipient())
	assert.Equal(t, customer, ClaimSource(&models.Claim{Customer: customer}).Recipient())
	assert.Equal(t, customer, QuotationSource(&models.Quotation{Customer: customer}).Recipient())
	assert.Nil(t, PolicySource(nil).Recipient())
}
