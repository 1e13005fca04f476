package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the primary key client-side so the same models work
// against PostgreSQL and the SQLite databases used in tests.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// SourcingType classifies how a part is procured
type SourcingType string

const (
	SourcingLocal  SourcingType = "Local"
	SourcingImport SourcingType = "Import"
)

// IsValid checks if the SourcingType is a valid enum value
func (s SourcingType) IsValid() bool {
	return s == SourcingLocal || s == SourcingImport
}

// PartUnit is the unit of measure for a catalog part
type PartUnit string

const (
	UnitPiece    PartUnit = "PCS"
	UnitSet      PartUnit = "SET"
	UnitKit      PartUnit = "KIT"
	UnitMeter    PartUnit = "MTR"
	UnitAssembly PartUnit = "ASSY"
)

// IsValid checks if the PartUnit is a valid enum value
func (u PartUnit) IsValid() bool {
	switch u {
	case UnitPiece, UnitSet, UnitKit, UnitMeter, UnitAssembly:
		return true
	}
	return false
}

// Part is a catalog entry in the parts master. Parts are never deleted while
// referenced by an inquiry; cost and stock may still be maintained.
type Part struct {
	PartNumber   string          `gorm:"type:varchar(50);primaryKey;column:part_number"`
	Description  string          `gorm:"type:varchar(200);not null"`
	Unit         PartUnit        `gorm:"type:varchar(10);not null;default:'PCS'"`
	StockOnHand  int             `gorm:"not null;default:0;column:stock_on_hand"`
	SourcingType SourcingType    `gorm:"type:varchar(20);not null;index;column:sourcing_type"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(15,2);not null;column:cost_price"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// CustomerID identifies a customer entity from the fixed roster
type CustomerID string

const (
	CustomerKMSI CustomerID = "KMSI"
	CustomerKCIC CustomerID = "KCIC"
	CustomerKPAC CustomerID = "KPAC"
	CustomerKMM  CustomerID = "KMM"
	CustomerKME  CustomerID = "KME"
	CustomerKEPO CustomerID = "KEPO"
	CustomerKAC  CustomerID = "KAC"
	CustomerKMSA CustomerID = "KMSA"
	CustomerKSAF CustomerID = "KSAF"
	CustomerKLTD CustomerID = "KLTD"
)

// CustomerRoster returns all customer entities allowed to submit inquiries
func CustomerRoster() []CustomerID {
	return []CustomerID{
		CustomerKMSI, CustomerKCIC, CustomerKPAC, CustomerKMM, CustomerKME,
		CustomerKEPO, CustomerKAC, CustomerKMSA, CustomerKSAF, CustomerKLTD,
	}
}

// IsValidCustomerID checks whether id belongs to the customer roster
func IsValidCustomerID(id string) bool {
	for _, c := range CustomerRoster() {
		if string(c) == id {
			return true
		}
	}
	return false
}

// SupplierRoster returns the suggested suppliers and workshops for
// localization development projects. Free-text supplier names are accepted;
// this list only feeds selection UIs.
func SupplierRoster() []string {
	return []string{
		"PT United Equipment Works",
		"PT Astra Components",
		"PT Prima Undercarriage",
		"Local Workshop A",
		"Local Workshop B",
	}
}

// InquiryStatus represents the workflow state of a customer inquiry
type InquiryStatus string

const (
	InquiryPendingValidation InquiryStatus = "Pending Validation"
	InquiryReadyForCosting   InquiryStatus = "Ready for Costing"
	InquiryNeedsLocalization InquiryStatus = "Needs Localization"
	InquiryInDevelopment     InquiryStatus = "In Development"
	InquiryWaitingApproval   InquiryStatus = "Waiting Approval"
	InquiryReviseRequired    InquiryStatus = "Revise Required"
	InquiryFinished          InquiryStatus = "Finished"
	InquiryCancelled         InquiryStatus = "Cancelled"
	InquiryPOCreated         InquiryStatus = "PO Created"
)

// AllInquiryStatuses lists every workflow state in board order
var AllInquiryStatuses = []InquiryStatus{
	InquiryPendingValidation,
	InquiryNeedsLocalization,
	InquiryInDevelopment,
	InquiryReadyForCosting,
	InquiryWaitingApproval,
	InquiryReviseRequired,
	InquiryFinished,
	InquiryPOCreated,
	InquiryCancelled,
}

// inquiryTransitions is the closed transition table for the inquiry state
// machine. Cancellation is handled separately: it is permitted from every
// non-terminal state.
var inquiryTransitions = map[InquiryStatus][]InquiryStatus{
	InquiryPendingValidation: {InquiryReadyForCosting, InquiryNeedsLocalization},
	InquiryNeedsLocalization: {InquiryInDevelopment},
	InquiryInDevelopment:     {InquiryReadyForCosting},
	InquiryReadyForCosting:   {InquiryWaitingApproval},
	InquiryWaitingApproval:   {InquiryFinished, InquiryReviseRequired},
	InquiryReviseRequired:    {InquiryWaitingApproval},
	InquiryFinished:          {InquiryPOCreated},
}

// IsValid checks if the InquiryStatus is a valid enum value
func (s InquiryStatus) IsValid() bool {
	if s == InquiryCancelled || s == InquiryPOCreated {
		return true
	}
	_, ok := inquiryTransitions[s]
	return ok
}

// IsTerminal reports whether no further transition is permitted
func (s InquiryStatus) IsTerminal() bool {
	return s == InquiryCancelled || s == InquiryPOCreated
}

// CanTransitionTo reports whether the state machine permits moving to next.
// Cancellation is allowed from any non-terminal state.
func (s InquiryStatus) CanTransitionTo(next InquiryStatus) bool {
	if next == InquiryCancelled {
		return !s.IsTerminal()
	}
	for _, t := range inquiryTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Inquiry is one customer part request tracked from submission to a terminal
// state. Inquiries are never physically deleted; cancellation is a status.
type Inquiry struct {
	BaseModel
	CustomerID          CustomerID    `gorm:"type:varchar(20);not null;index;column:customer_id"`
	PartNumber          string        `gorm:"type:varchar(50);not null;index;column:part_number"`
	Part                *Part         `gorm:"foreignKey:PartNumber;references:PartNumber"`
	Quantity            int           `gorm:"not null"`
	Status              InquiryStatus `gorm:"type:varchar(50);not null;default:'Pending Validation';index"`
	RevisionCount       int           `gorm:"not null;default:0;column:revision_count"`
	PurchaseOrderNumber string        `gorm:"type:varchar(50);column:purchase_order_number"`
}

// LocalizationStatus represents the development state of a localization project
type LocalizationStatus string

const (
	LocalizationOnProgress LocalizationStatus = "On Progress"
	LocalizationFinished   LocalizationStatus = "Finished"
)

// LocalizationProject is the local-sourcing development sub-process attached
// to an imported part's inquiry. An inquiry has at most one project that is
// still on progress.
type LocalizationProject struct {
	BaseModel
	InquiryID        uuid.UUID          `gorm:"type:uuid;not null;index;column:inquiry_id"`
	Inquiry          *Inquiry           `gorm:"foreignKey:InquiryID"`
	PartNumber       string             `gorm:"type:varchar(50);not null;column:part_number"`
	SupplierName     string             `gorm:"type:varchar(200);not null;column:supplier_name"`
	StartDate        time.Time          `gorm:"not null;column:start_date"`
	TargetFinishDate time.Time          `gorm:"column:target_finish_date"`
	Status           LocalizationStatus `gorm:"type:varchar(20);not null;default:'On Progress';index"`
	Notes            string             `gorm:"type:text"`
}

// QuotationStatus represents the approval state of a quotation
type QuotationStatus string

const (
	QuotationDraft    QuotationStatus = "Draft"
	QuotationApproved QuotationStatus = "Approved"
	QuotationRejected QuotationStatus = "Rejected"
)

// IsLive reports whether the quotation blocks a new draft cycle for its
// inquiry. Rejected quotations never block.
func (s QuotationStatus) IsLive() bool {
	return s == QuotationDraft || s == QuotationApproved
}

// Quotation is a priced offer for one inquiry. Approved and Rejected are
// terminal for a quotation instance; a revision cycle produces a new quote ID.
type Quotation struct {
	QuoteID          string          `gorm:"type:varchar(30);primaryKey;column:quote_id"`
	InquiryID        uuid.UUID       `gorm:"type:uuid;not null;index;column:inquiry_id"`
	Inquiry          *Inquiry        `gorm:"foreignKey:InquiryID"`
	CustomerID       CustomerID      `gorm:"type:varchar(20);not null;column:customer_id"`
	PartNumber       string          `gorm:"type:varchar(50);not null;column:part_number"`
	CostPrice        decimal.Decimal `gorm:"type:decimal(15,2);not null;column:cost_price"`
	ProfitPercentage float64         `gorm:"type:decimal(5,2);not null;column:profit_percentage"`
	SDC              decimal.Decimal `gorm:"type:decimal(15,2);not null;column:sdc"`
	SVC              decimal.Decimal `gorm:"type:decimal(15,2);not null;column:svc"`
	SalesPrice       decimal.Decimal `gorm:"type:decimal(15,2);not null;column:sales_price"`
	OpProfit         decimal.Decimal `gorm:"type:decimal(15,2);not null;column:op_profit"`
	MOQ              int             `gorm:"not null;column:moq"`
	LeadtimeDays     int             `gorm:"not null;column:leadtime_days"`
	Status           QuotationStatus `gorm:"type:varchar(20);not null;default:'Draft';index"`
	CreatedAt        time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// QuoteSequence backs quote ID generation with a per-year counter
type QuoteSequence struct {
	ID           uint      `gorm:"primaryKey"`
	Year         int       `gorm:"not null;uniqueIndex"`
	LastSequence int       `gorm:"not null;column:last_sequence"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// NotificationStatus is the delivery outcome of an outbound offer e-mail
type NotificationStatus string

const (
	NotificationSent   NotificationStatus = "sent"
	NotificationFailed NotificationStatus = "failed"
)

// Notification records one outbound offer e-mail attempt. Delivery failures
// are recorded and reported to the caller; they never revert workflow state.
type Notification struct {
	BaseModel
	QuoteID     string             `gorm:"type:varchar(30);not null;index;column:quote_id"`
	Recipient   string             `gorm:"type:varchar(255);not null"`
	Subject     string             `gorm:"type:varchar(255);not null"`
	Status      NotificationStatus `gorm:"type:varchar(20);not null;index"`
	Error       string             `gorm:"type:text"`
	ArchivePath string             `gorm:"type:varchar(500);column:archive_path"`
}

// PricebookRegions are the regional entities the read-only pricebook can be
// queried for when benchmarking a proposed sales price.
var PricebookRegions = []string{"BKC", "PRPD", "KIPL", "KSC", "KAC"}
