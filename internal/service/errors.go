package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrPartNotFound is returned when a catalog part is not found
	ErrPartNotFound = errors.New("part not found")

	// ErrDuplicatePart is returned when creating a part whose number already exists
	ErrDuplicatePart = errors.New("part number already exists")

	// ErrPartReferenced is returned when deleting a part still referenced by inquiries
	ErrPartReferenced = errors.New("part is referenced by inquiries")

	// ErrInquiryNotFound is returned when an inquiry is not found
	ErrInquiryNotFound = errors.New("inquiry not found")

	// ErrQuotationNotFound is returned when a quotation is not found
	ErrQuotationNotFound = errors.New("quotation not found")

	// ErrLocalizationNotFound is returned when a localization project is not found
	ErrLocalizationNotFound = errors.New("localization project not found")

	// ErrUnknownCustomer is returned when the customer ID is not on the roster
	ErrUnknownCustomer = errors.New("unknown customer entity")

	// ErrInvalidTransition is returned when a workflow operation is attempted
	// from a state that does not permit it
	ErrInvalidTransition = errors.New("operation not permitted in current status")

	// ErrLocalizationNotApplicable is returned when routing a locally sourced
	// part into the localization sub-process
	ErrLocalizationNotApplicable = errors.New("localization only applies to imported parts")

	// ErrLocalizationRequired is returned when validating an imported part
	// straight to costing instead of localizing or cancelling it
	ErrLocalizationRequired = errors.New("imported parts must be localized before costing")

	// ErrQuotationPending is returned when submitting a draft while another
	// draft or approved quotation is live for the inquiry
	ErrQuotationPending = errors.New("inquiry already has a live quotation")

	// ErrQuotationDecided is returned when deciding a quotation that is no longer a draft
	ErrQuotationDecided = errors.New("quotation has already been decided")

	// ErrQuotationNotApproved is returned when sending an offer for a quotation
	// that is not approved
	ErrQuotationNotApproved = errors.New("quotation is not approved")

	// ErrInfeasibleMargin is returned when the profit percentage makes the
	// sales price denominator non-positive
	ErrInfeasibleMargin = errors.New("profit percentage is infeasible")

	// ErrDuplicatePurchaseOrder is returned when a PO number is already in use
	ErrDuplicatePurchaseOrder = errors.New("purchase order number already exists")

	// ErrNoApprovedQuotation is returned when registering a PO for an inquiry
	// without an approved quotation
	ErrNoApprovedQuotation = errors.New("inquiry has no approved quotation")

	// ErrPricebookUnavailable is returned when the regional pricebook is not configured
	ErrPricebookUnavailable = errors.New("pricebook is not available")
)
