package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInquiryStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    InquiryStatus
		to      InquiryStatus
		allowed bool
	}{
		{"pending to costing", InquiryPendingValidation, InquiryReadyForCosting, true},
		{"pending to localization", InquiryPendingValidation, InquiryNeedsLocalization, true},
		{"pending straight to approval", InquiryPendingValidation, InquiryWaitingApproval, false},
		{"localization to development", InquiryNeedsLocalization, InquiryInDevelopment, true},
		{"localization back to pending", InquiryNeedsLocalization, InquiryPendingValidation, false},
		{"development to costing", InquiryInDevelopment, InquiryReadyForCosting, true},
		{"costing to approval", InquiryReadyForCosting, InquiryWaitingApproval, true},
		{"approval to finished", InquiryWaitingApproval, InquiryFinished, true},
		{"approval to revise", InquiryWaitingApproval, InquiryReviseRequired, true},
		{"revise back to approval", InquiryReviseRequired, InquiryWaitingApproval, true},
		{"revise to finished", InquiryReviseRequired, InquiryFinished, false},
		{"finished to po", InquiryFinished, InquiryPOCreated, true},
		{"finished back to approval", InquiryFinished, InquiryWaitingApproval, false},
		{"po is terminal", InquiryPOCreated, InquiryFinished, false},
		{"cancelled is terminal", InquiryCancelled, InquiryPendingValidation, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestInquiryStatusCancellation(t *testing.T) {
	for _, s := range AllInquiryStatuses {
		if s.IsTerminal() {
			assert.False(t, s.CanTransitionTo(InquiryCancelled), "terminal state %s must not cancel", s)
		} else {
			assert.True(t, s.CanTransitionTo(InquiryCancelled), "non-terminal state %s must cancel", s)
		}
	}
}

func TestInquiryStatusIsTerminal(t *testing.T) {
	assert.True(t, InquiryCancelled.IsTerminal())
	assert.True(t, InquiryPOCreated.IsTerminal())

	assert.False(t, InquiryPendingValidation.IsTerminal())
	assert.False(t, InquiryFinished.IsTerminal())
	assert.False(t, InquiryReviseRequired.IsTerminal())
}

func TestInquiryStatusIsValid(t *testing.T) {
	for _, s := range AllInquiryStatuses {
		assert.True(t, s.IsValid(), "status %s", s)
	}
	assert.False(t, InquiryStatus("Shipped").IsValid())
	assert.False(t, InquiryStatus("").IsValid())
}

func TestQuotationStatusIsLive(t *testing.T) {
	assert.True(t, QuotationDraft.IsLive())
	assert.True(t, QuotationApproved.IsLive())
	assert.False(t, QuotationRejected.IsLive())
}

func TestCustomerRoster(t *testing.T) {
	assert.Len(t, CustomerRoster(), 10)

	assert.True(t, IsValidCustomerID("KMSI"))
	assert.True(t, IsValidCustomerID("KLTD"))
	assert.False(t, IsValidCustomerID("ACME"))
	assert.False(t, IsValidCustomerID(""))
	assert.False(t, IsValidCustomerID("kmsi"))
}

func TestSourcingTypeIsValid(t *testing.T) {
	assert.True(t, SourcingLocal.IsValid())
	assert.True(t, SourcingImport.IsValid())
	assert.False(t, SourcingType("Hybrid").IsValid())
}

func TestPartUnitIsValid(t *testing.T) {
	for _, u := range []PartUnit{UnitPiece, UnitSet, UnitKit, UnitMeter, UnitAssembly} {
		assert.True(t, u.IsValid(), "unit %s", u)
	}
	assert.False(t, PartUnit("BOX").IsValid())
}
