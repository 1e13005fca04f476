package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
	"github.com/ami-aftermarket/quotation-api/internal/mailer"
	"github.com/ami-aftermarket/quotation-api/internal/mapper"
	"github.com/ami-aftermarket/quotation-api/internal/repository"
	"github.com/ami-aftermarket/quotation-api/internal/storage"
)

// NotificationService sends offer letters for approved quotations and keeps
// the outbound send log. Every send attempt is recorded, successful or not,
// and the letter text is archived before the mail leaves. A failed send never
// changes workflow state; the offer can simply be sent again.
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	quotationRepo    *repository.QuotationRepository
	mailer           mailer.Mailer
	archive          storage.Archive
	logger           *zap.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	quotationRepo *repository.QuotationRepository,
	m mailer.Mailer,
	archive storage.Archive,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		quotationRepo:    quotationRepo,
		mailer:           m,
		archive:          archive,
		logger:           logger,
	}
}

// SendOffer e-mails the offer letter for an approved quotation and archives
// the letter text under the quote ID
func (s *NotificationService) SendOffer(ctx context.Context, quoteID string, req *domain.SendOfferRequest) (*domain.NotificationDTO, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	if quotation.Status != domain.QuotationApproved {
		return nil, ErrQuotationNotApproved
	}

	subject := fmt.Sprintf("Quotation %s - %s", quotation.QuoteID, quotation.PartNumber)
	body := offerLetter(quotation)

	notification := &domain.Notification{
		QuoteID:   quotation.QuoteID,
		Recipient: req.Recipient,
		Subject:   subject,
	}

	archivePath, _, err := s.archive.Put(ctx, quotation.QuoteID, "text/plain", strings.NewReader(body))
	if err != nil {
		s.logger.Error("Failed to archive offer letter",
			zap.String("quote_id", quotation.QuoteID),
			zap.Error(err),
		)
	} else {
		notification.ArchivePath = archivePath
	}

	if err := s.mailer.Send(req.Recipient, subject, body); err != nil {
		notification.Status = domain.NotificationFailed
		notification.Error = err.Error()
		s.logger.Error("Failed to send offer",
			zap.String("quote_id", quotation.QuoteID),
			zap.String("recipient", req.Recipient),
			zap.Error(err),
		)
	} else {
		notification.Status = domain.NotificationSent
		s.logger.Info("Offer sent",
			zap.String("quote_id", quotation.QuoteID),
			zap.String("recipient", req.Recipient),
		)
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to record notification: %w", err)
	}

	dto := mapper.ToNotificationDTO(notification)
	return &dto, nil
}

// GetLetter retrieves the archived offer letter text for a quotation
func (s *NotificationService) GetLetter(ctx context.Context, quoteID string) (string, error) {
	notifications, err := s.notificationRepo.ListByQuote(ctx, quoteID)
	if err != nil {
		return "", fmt.Errorf("failed to list notifications: %w", err)
	}

	var archivePath string
	for _, n := range notifications {
		if n.ArchivePath != "" {
			archivePath = n.ArchivePath
			break
		}
	}
	if archivePath == "" {
		return "", ErrNotFound
	}

	reader, err := s.archive.Get(ctx, archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to read archived letter: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read archived letter: %w", err)
	}
	return string(data), nil
}

// ListByQuote returns the send log for one quotation, newest first
func (s *NotificationService) ListByQuote(ctx context.Context, quoteID string) ([]domain.NotificationDTO, error) {
	notifications, err := s.notificationRepo.ListByQuote(ctx, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return mapper.ToNotificationDTOs(notifications), nil
}

// List returns a page of the outbound send log, optionally filtered by status
func (s *NotificationService) List(ctx context.Context, page, pageSize int, status domain.NotificationStatus) ([]domain.NotificationDTO, int64, error) {
	if status != "" && status != domain.NotificationSent && status != domain.NotificationFailed {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	notifications, total, err := s.notificationRepo.List(ctx, page, pageSize, status)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return mapper.ToNotificationDTOs(notifications), total, nil
}

// offerLetter renders the plain-text offer letter for a quotation
func offerLetter(q *domain.Quotation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Quotation %s\n", q.QuoteID)
	fmt.Fprintf(&b, "Date: %s\n\n", time.Now().UTC().Format("2006-01-02"))
	fmt.Fprintf(&b, "Customer: %s\n", q.CustomerID)
	fmt.Fprintf(&b, "Part number: %s\n\n", q.PartNumber)
	fmt.Fprintf(&b, "Unit sales price: %s\n", q.SalesPrice.StringFixed(2))
	fmt.Fprintf(&b, "Minimum order quantity: %d\n", q.MOQ)
	fmt.Fprintf(&b, "Leadtime: %d days\n\n", q.LeadtimeDays)
	b.WriteString("This offer is valid for 30 days from the date above.\n")
	return b.String()
}
