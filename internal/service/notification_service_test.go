package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
	"github.com/ami-aftermarket/quotation-api/internal/repository"
	"github.com/ami-aftermarket/quotation-api/internal/service"
)

type fakeMailer struct {
	sent []struct{ to, subject, body string }
	err  error
}

func (f *fakeMailer) Send(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, struct{ to, subject, body string }{to, subject, body})
	return nil
}

type memoryArchive struct {
	objects map[string][]byte
	err     error
}

func newMemoryArchive() *memoryArchive {
	return &memoryArchive{objects: make(map[string][]byte)}
}

func (m *memoryArchive) Put(ctx context.Context, quoteID string, contentType string, data io.Reader) (string, int64, error) {
	if m.err != nil {
		return "", 0, m.err
	}
	body, err := io.ReadAll(data)
	if err != nil {
		return "", 0, err
	}
	path := fmt.Sprintf("offers/%s.txt", quoteID)
	m.objects[path] = body
	return path, int64(len(body)), nil
}

func (m *memoryArchive) Get(ctx context.Context, archivePath string) (io.ReadCloser, error) {
	body, ok := m.objects[archivePath]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

func (m *memoryArchive) Delete(ctx context.Context, archivePath string) error {
	delete(m.objects, archivePath)
	return nil
}

func newNotificationService(env *testEnv, m *fakeMailer, a *memoryArchive) *service.NotificationService {
	return service.NewNotificationService(
		repository.NewNotificationRepository(env.db),
		repository.NewQuotationRepository(env.db),
		m, a, zap.NewNop(),
	)
}

func TestNotificationSendOffer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "TRK-1001", domain.SourcingLocal, 45, 0)
	_, quote := env.inquiryFinished(t, ctx, "KMSI", "TRK-1001")

	mail := &fakeMailer{}
	archive := newMemoryArchive()
	svc := newNotificationService(env, mail, archive)

	dto, err := svc.SendOffer(ctx, quote.QuoteID, &domain.SendOfferRequest{Recipient: "parts@kmsi.example.com"})
	require.NoError(t, err)

	assert.Equal(t, domain.NotificationSent, dto.Status)
	assert.Equal(t, quote.QuoteID, dto.QuoteID)
	assert.Equal(t, "parts@kmsi.example.com", dto.Recipient)
	assert.NotEmpty(t, dto.ArchivePath)
	assert.Empty(t, dto.Error)

	require.Len(t, mail.sent, 1)
	assert.Contains(t, mail.sent[0].subject, quote.QuoteID)
	assert.Contains(t, mail.sent[0].body, "TRK-1001")
	assert.Contains(t, mail.sent[0].body, "valid for 30 days")
}

func TestNotificationSendOfferNotApproved(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "TRK-1001", domain.SourcingLocal, 45, 0)
	_, quote := env.inquiryWithDraft(t, ctx, "KCIC", "TRK-1001", 10)

	svc := newNotificationService(env, &fakeMailer{}, newMemoryArchive())

	_, err := svc.SendOffer(ctx, quote.QuoteID, &domain.SendOfferRequest{Recipient: "parts@kcic.example.com"})
	assert.ErrorIs(t, err, service.ErrQuotationNotApproved)
}

func TestNotificationSendOfferUnknownQuote(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	svc := newNotificationService(env, &fakeMailer{}, newMemoryArchive())

	_, err := svc.SendOffer(ctx, "Q-2026-00042", &domain.SendOfferRequest{Recipient: "x@example.com"})
	assert.ErrorIs(t, err, service.ErrQuotationNotFound)
}

func TestNotificationSendOfferMailFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "TRK-1001", domain.SourcingLocal, 45, 0)
	inquiryID, quote := env.inquiryFinished(t, ctx, "KPAC", "TRK-1001")

	mail := &fakeMailer{err: errors.New("smtp: connection refused")}
	svc := newNotificationService(env, mail, newMemoryArchive())

	dto, err := svc.SendOffer(ctx, quote.QuoteID, &domain.SendOfferRequest{Recipient: "parts@kpac.example.com"})
	require.NoError(t, err)

	assert.Equal(t, domain.NotificationFailed, dto.Status)
	assert.Contains(t, dto.Error, "connection refused")
	// The letter was still archived before the send attempt.
	assert.NotEmpty(t, dto.ArchivePath)

	// Delivery failures never touch workflow state.
	assert.Equal(t, domain.InquiryFinished, env.inquiryStatus(t, ctx, inquiryID))
	got, err := env.quotations.Get(ctx, quote.QuoteID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationApproved, got.Status)
}

func TestNotificationSendOfferArchiveFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "TRK-1001", domain.SourcingLocal, 45, 0)
	_, quote := env.inquiryFinished(t, ctx, "KMM", "TRK-1001")

	mail := &fakeMailer{}
	archive := newMemoryArchive()
	archive.err = errors.New("blob store down")
	svc := newNotificationService(env, mail, archive)

	// Archiving is best effort; the send still goes out.
	dto, err := svc.SendOffer(ctx, quote.QuoteID, &domain.SendOfferRequest{Recipient: "parts@kmm.example.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationSent, dto.Status)
	assert.Empty(t, dto.ArchivePath)
	assert.Len(t, mail.sent, 1)
}

func TestNotificationGetLetter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "TRK-1001", domain.SourcingLocal, 45, 0)
	_, quote := env.inquiryFinished(t, ctx, "KME", "TRK-1001")

	svc := newNotificationService(env, &fakeMailer{}, newMemoryArchive())

	_, err := svc.SendOffer(ctx, quote.QuoteID, &domain.SendOfferRequest{Recipient: "parts@kme.example.com"})
	require.NoError(t, err)

	letter, err := svc.GetLetter(ctx, quote.QuoteID)
	require.NoError(t, err)
	assert.Contains(t, letter, quote.QuoteID)
	assert.Contains(t, letter, "Minimum order quantity")
}

func TestNotificationGetLetterNotArchived(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	svc := newNotificationService(env, &fakeMailer{}, newMemoryArchive())

	_, err := svc.GetLetter(ctx, "Q-2026-00042")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestNotificationListByQuote(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "TRK-1001", domain.SourcingLocal, 45, 0)
	_, quote := env.inquiryFinished(t, ctx, "KEPO", "TRK-1001")

	svc := newNotificationService(env, &fakeMailer{}, newMemoryArchive())

	_, err := svc.SendOffer(ctx, quote.QuoteID, &domain.SendOfferRequest{Recipient: "a@example.com"})
	require.NoError(t, err)
	_, err = svc.SendOffer(ctx, quote.QuoteID, &domain.SendOfferRequest{Recipient: "b@example.com"})
	require.NoError(t, err)

	log, err := svc.ListByQuote(ctx, quote.QuoteID)
	require.NoError(t, err)
	assert.Len(t, log, 2)

	sent, total, err := svc.List(ctx, 1, 20, domain.NotificationSent)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, sent, 2)
}
