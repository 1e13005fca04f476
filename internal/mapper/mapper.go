package mapper

import (
	"time"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
	"github.com/ami-aftermarket/quotation-api/internal/pricebook"
	"github.com/ami-aftermarket/quotation-api/internal/pricing"
)

const timeFormat = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

// ToPartDTO converts Part to PartDTO
func ToPartDTO(part *domain.Part) domain.PartDTO {
	cost, _ := part.CostPrice.Float64()
	return domain.PartDTO{
		PartNumber:   part.PartNumber,
		Description:  part.Description,
		Unit:         part.Unit,
		StockOnHand:  part.StockOnHand,
		SourcingType: part.SourcingType,
		CostPrice:    cost,
		CreatedAt:    formatTime(part.CreatedAt),
		UpdatedAt:    formatTime(part.UpdatedAt),
	}
}

// ToInquiryDTO converts Inquiry to InquiryDTO. Part details are included
// when the association is loaded.
func ToInquiryDTO(inquiry *domain.Inquiry) domain.InquiryDTO {
	dto := domain.InquiryDTO{
		ID:                  inquiry.ID,
		CustomerID:          inquiry.CustomerID,
		PartNumber:          inquiry.PartNumber,
		Quantity:            inquiry.Quantity,
		Status:              inquiry.Status,
		RevisionCount:       inquiry.RevisionCount,
		PurchaseOrderNumber: inquiry.PurchaseOrderNumber,
		CreatedAt:           formatTime(inquiry.CreatedAt),
		UpdatedAt:           formatTime(inquiry.UpdatedAt),
	}
	if inquiry.Part != nil {
		dto.PartDescription = inquiry.Part.Description
		dto.SourcingType = inquiry.Part.SourcingType
	}
	return dto
}

// ToLocalizationProjectDTO converts LocalizationProject to its DTO
func ToLocalizationProjectDTO(project *domain.LocalizationProject) domain.LocalizationProjectDTO {
	dto := domain.LocalizationProjectDTO{
		ID:           project.ID,
		InquiryID:    project.InquiryID,
		PartNumber:   project.PartNumber,
		SupplierName: project.SupplierName,
		StartDate:    formatTime(project.StartDate),
		Status:       project.Status,
		Notes:        project.Notes,
		CreatedAt:    formatTime(project.CreatedAt),
		UpdatedAt:    formatTime(project.UpdatedAt),
	}
	if !project.TargetFinishDate.IsZero() {
		dto.TargetFinishDate = formatTime(project.TargetFinishDate)
	}
	return dto
}

// ToQuotationDTO converts Quotation to QuotationDTO
func ToQuotationDTO(quotation *domain.Quotation) domain.QuotationDTO {
	cost, _ := quotation.CostPrice.Float64()
	sdc, _ := quotation.SDC.Float64()
	svc, _ := quotation.SVC.Float64()
	salesPrice, _ := quotation.SalesPrice.Float64()
	opProfit, _ := quotation.OpProfit.Float64()

	return domain.QuotationDTO{
		QuoteID:          quotation.QuoteID,
		InquiryID:        quotation.InquiryID,
		CustomerID:       quotation.CustomerID,
		PartNumber:       quotation.PartNumber,
		CostPrice:        cost,
		ProfitPercentage: quotation.ProfitPercentage,
		SDC:              sdc,
		SVC:              svc,
		SalesPrice:       salesPrice,
		OpProfit:         opProfit,
		MOQ:              quotation.MOQ,
		LeadtimeDays:     quotation.LeadtimeDays,
		Status:           quotation.Status,
		CreatedAt:        formatTime(quotation.CreatedAt),
		UpdatedAt:        formatTime(quotation.UpdatedAt),
	}
}

// ToNotificationDTO converts Notification to NotificationDTO
func ToNotificationDTO(notification *domain.Notification) domain.NotificationDTO {
	return domain.NotificationDTO{
		ID:          notification.ID,
		QuoteID:     notification.QuoteID,
		Recipient:   notification.Recipient,
		Subject:     notification.Subject,
		Status:      notification.Status,
		Error:       notification.Error,
		ArchivePath: notification.ArchivePath,
		CreatedAt:   formatTime(notification.CreatedAt),
	}
}

// ToInquiryDTOs converts a slice of inquiries
func ToInquiryDTOs(inquiries []domain.Inquiry) []domain.InquiryDTO {
	dtos := make([]domain.InquiryDTO, len(inquiries))
	for i := range inquiries {
		dtos[i] = ToInquiryDTO(&inquiries[i])
	}
	return dtos
}

// ToPartDTOs converts a slice of parts
func ToPartDTOs(parts []domain.Part) []domain.PartDTO {
	dtos := make([]domain.PartDTO, len(parts))
	for i := range parts {
		dtos[i] = ToPartDTO(&parts[i])
	}
	return dtos
}

// ToQuotationDTOs converts a slice of quotations
func ToQuotationDTOs(quotations []domain.Quotation) []domain.QuotationDTO {
	dtos := make([]domain.QuotationDTO, len(quotations))
	for i := range quotations {
		dtos[i] = ToQuotationDTO(&quotations[i])
	}
	return dtos
}

// ToLocalizationProjectDTOs converts a slice of localization projects
func ToLocalizationProjectDTOs(projects []domain.LocalizationProject) []domain.LocalizationProjectDTO {
	dtos := make([]domain.LocalizationProjectDTO, len(projects))
	for i := range projects {
		dtos[i] = ToLocalizationProjectDTO(&projects[i])
	}
	return dtos
}

// ToNotificationDTOs converts a slice of notifications
func ToNotificationDTOs(notifications []domain.Notification) []domain.NotificationDTO {
	dtos := make([]domain.NotificationDTO, len(notifications))
	for i := range notifications {
		dtos[i] = ToNotificationDTO(&notifications[i])
	}
	return dtos
}

// ToPriceBreakdownDTO converts a pricing breakdown to its response DTO
func ToPriceBreakdownDTO(b pricing.Breakdown) *domain.PriceBreakdownDTO {
	return &domain.PriceBreakdownDTO{
		CostPrice:        b.CostPrice.InexactFloat64(),
		ProfitPercentage: b.ProfitPercentage,
		SDC:              b.SDC.InexactFloat64(),
		SVC:              b.SVC.InexactFloat64(),
		SalesPrice:       b.SalesPrice.InexactFloat64(),
		OpProfit:         b.OpProfit.InexactFloat64(),
	}
}

// ToRegionalPriceDTO converts one pricebook row to its response DTO
func ToRegionalPriceDTO(p pricebook.RegionalPrice) domain.RegionalPriceDTO {
	dto := domain.RegionalPriceDTO{
		Region:     p.Region,
		PartNumber: p.PartNumber,
		UnitPrice:  p.UnitPrice,
		Currency:   p.Currency,
	}
	if !p.ValidFrom.IsZero() {
		dto.ValidFrom = formatTime(p.ValidFrom)
	}
	return dto
}
