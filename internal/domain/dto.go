package domain

import (
	"time"

	"github.com/google/uuid"
)

// DTOs for API responses. Money fields are serialized as JSON numbers with
// two-decimal precision; timestamps as ISO 8601 strings.

type PartDTO struct {
	PartNumber   string       `json:"partNumber"`
	Description  string       `json:"description"`
	Unit         PartUnit     `json:"unit"`
	StockOnHand  int          `json:"stockOnHand"`
	SourcingType SourcingType `json:"sourcingType"`
	CostPrice    float64      `json:"costPrice"`
	CreatedAt    string       `json:"createdAt"` // ISO 8601
	UpdatedAt    string       `json:"updatedAt"` // ISO 8601
}

type InquiryDTO struct {
	ID                  uuid.UUID     `json:"id"`
	CustomerID          CustomerID    `json:"customerId"`
	PartNumber          string        `json:"partNumber"`
	PartDescription     string        `json:"partDescription,omitempty"`
	SourcingType        SourcingType  `json:"sourcingType,omitempty"`
	Quantity            int           `json:"quantity"`
	Status              InquiryStatus `json:"status"`
	RevisionCount       int           `json:"revisionCount"`
	PurchaseOrderNumber string        `json:"purchaseOrderNumber,omitempty"`
	CreatedAt           string        `json:"createdAt"` // ISO 8601
	UpdatedAt           string        `json:"updatedAt"` // ISO 8601
}

type LocalizationProjectDTO struct {
	ID               uuid.UUID          `json:"id"`
	InquiryID        uuid.UUID          `json:"inquiryId"`
	PartNumber       string             `json:"partNumber"`
	SupplierName     string             `json:"supplierName"`
	StartDate        string             `json:"startDate"` // ISO 8601
	TargetFinishDate string             `json:"targetFinishDate,omitempty"`
	Status           LocalizationStatus `json:"status"`
	Notes            string             `json:"notes,omitempty"`
	CreatedAt        string             `json:"createdAt"`
	UpdatedAt        string             `json:"updatedAt"`
}

type QuotationDTO struct {
	QuoteID          string          `json:"quoteId"`
	InquiryID        uuid.UUID       `json:"inquiryId"`
	CustomerID       CustomerID      `json:"customerId"`
	PartNumber       string          `json:"partNumber"`
	CostPrice        float64         `json:"costPrice"`
	ProfitPercentage float64         `json:"profitPercentage"`
	SDC              float64         `json:"sdc"`
	SVC              float64         `json:"svc"`
	SalesPrice       float64         `json:"salesPrice"`
	OpProfit         float64         `json:"opProfit"`
	MOQ              int             `json:"moq"`
	LeadtimeDays     int             `json:"leadtimeDays"`
	Status           QuotationStatus `json:"status"`
	CreatedAt        string          `json:"createdAt"`
	UpdatedAt        string          `json:"updatedAt"`
}

// PriceBreakdownDTO is the full deterministic pricing calculation for a cost
// and profit input, before any quotation is persisted.
type PriceBreakdownDTO struct {
	CostPrice        float64 `json:"costPrice"`
	ProfitPercentage float64 `json:"profitPercentage"`
	SDC              float64 `json:"sdc"`
	SVC              float64 `json:"svc"`
	SalesPrice       float64 `json:"salesPrice"`
	OpProfit         float64 `json:"opProfit"`
}

// ProcurementEstimateDTO carries the heuristic MOQ and leadtime suggestion
// for a part. Values are advisory and editable before a draft is submitted.
type ProcurementEstimateDTO struct {
	PartNumber   string  `json:"partNumber"`
	CostPrice    float64 `json:"costPrice"`
	SourcingType string  `json:"sourcingType"`
	StockOnHand  int     `json:"stockOnHand"`
	MOQ          int     `json:"moq"`
	LeadtimeDays int     `json:"leadtimeDays"`
}

// RegionalPriceDTO is one row of the read-only pricebook benchmark
type RegionalPriceDTO struct {
	Region     string  `json:"region"`
	PartNumber string  `json:"partNumber"`
	UnitPrice  float64 `json:"unitPrice"`
	Currency   string  `json:"currency"`
	ValidFrom  string  `json:"validFrom,omitempty"` // ISO 8601
}

// PriceBenchmarkDTO compares a proposed sales price against regional entities
type PriceBenchmarkDTO struct {
	PartNumber     string             `json:"partNumber"`
	ProposedPrice  float64            `json:"proposedPrice,omitempty"`
	RegionalPrices []RegionalPriceDTO `json:"regionalPrices"`
	LowestRegion   string             `json:"lowestRegion,omitempty"`
	LowestPrice    float64            `json:"lowestPrice,omitempty"`
}

type NotificationDTO struct {
	ID          uuid.UUID          `json:"id"`
	QuoteID     string             `json:"quoteId"`
	Recipient   string             `json:"recipient"`
	Subject     string             `json:"subject"`
	Status      NotificationStatus `json:"status"`
	Error       string             `json:"error,omitempty"`
	ArchivePath string             `json:"archivePath,omitempty"`
	CreatedAt   string             `json:"createdAt"`
}

// Dashboard DTOs

// StatusCountDTO is one bucket of the workflow status board
type StatusCountDTO struct {
	Status InquiryStatus `json:"status"`
	Count  int64         `json:"count"`
}

// DashboardMetrics summarizes the live workload across the workflow
type DashboardMetrics struct {
	StatusCounts        []StatusCountDTO `json:"statusCounts"`
	OpenInquiries       int64            `json:"openInquiries"`
	ActiveLocalizations int64            `json:"activeLocalizations"`
	PendingApprovals    int64            `json:"pendingApprovals"`
	ApprovedCount       int64            `json:"approvedCount"`
	ApprovedValue       float64          `json:"approvedValue"`
	AvgProfitPercentage float64          `json:"avgProfitPercentage"`
	POCount             int64            `json:"poCount"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Pagination response wrapper
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// API Response wrapper
type APIResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
}

// Request DTOs

type CreatePartRequest struct {
	PartNumber   string       `json:"partNumber" validate:"required,max=50"`
	Description  string       `json:"description" validate:"required,max=200"`
	Unit         PartUnit     `json:"unit,omitempty"`
	StockOnHand  int          `json:"stockOnHand" validate:"gte=0"`
	SourcingType SourcingType `json:"sourcingType" validate:"required,oneof=Local Import"`
	CostPrice    float64      `json:"costPrice" validate:"gte=0"`
}

type UpdatePartRequest struct {
	Description  string       `json:"description" validate:"required,max=200"`
	Unit         PartUnit     `json:"unit,omitempty"`
	StockOnHand  int          `json:"stockOnHand" validate:"gte=0"`
	SourcingType SourcingType `json:"sourcingType" validate:"required,oneof=Local Import"`
	CostPrice    float64      `json:"costPrice" validate:"gte=0"`
}

type CreateInquiryRequest struct {
	CustomerID string `json:"customerId" validate:"required,max=20"`
	PartNumber string `json:"partNumber" validate:"required,max=50"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}

// ValidateInquiryRequest routes a pending inquiry toward costing or the
// localization sub-process
type ValidateInquiryRequest struct {
	Decision string `json:"decision" validate:"required,oneof=costing localization"`
}

// Validation decisions accepted by ValidateInquiryRequest
const (
	DecisionCosting      = "costing"
	DecisionLocalization = "localization"
)

type StartLocalizationRequest struct {
	SupplierName     string     `json:"supplierName" validate:"required,max=200"`
	TargetFinishDate *time.Time `json:"targetFinishDate,omitempty"`
	Notes            string     `json:"notes,omitempty" validate:"max=2000"`
}

type FinishLocalizationRequest struct {
	Notes string `json:"notes,omitempty" validate:"max=2000"`
}

type SubmitQuotationDraftRequest struct {
	ProfitPercentage float64 `json:"profitPercentage" validate:"required,gte=5,lte=50"`
	MOQ              *int    `json:"moq,omitempty" validate:"omitempty,gt=0"`
	LeadtimeDays     *int    `json:"leadtimeDays,omitempty" validate:"omitempty,gt=0"`
}

// DecideQuotationRequest approves or rejects a draft quotation
type DecideQuotationRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Reason   string `json:"reason,omitempty" validate:"max=500"`
}

// Quotation decisions accepted by DecideQuotationRequest
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

type CreatePurchaseOrderRequest struct {
	PurchaseOrderNumber string `json:"purchaseOrderNumber" validate:"required,max=50"`
}

type CancelInquiryRequest struct {
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

// CalculatePriceRequest is the stateless pricing preview input
type CalculatePriceRequest struct {
	CostPrice        float64 `json:"costPrice" validate:"required,gt=0"`
	ProfitPercentage float64 `json:"profitPercentage" validate:"required,gt=0,lt=90"`
}

// SendOfferRequest addresses the offer e-mail for an approved quotation
type SendOfferRequest struct {
	Recipient string `json:"recipient" validate:"required,email,max=255"`
}
