package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
)

type stubLister struct {
	projects []domain.LocalizationProjectDTO
	err      error
}

func (s *stubLister) ListOverdue(ctx context.Context, thresholdDays int) ([]domain.LocalizationProjectDTO, error) {
	return s.projects, s.err
}

type stubMailer struct {
	sent []struct{ to, subject, body string }
	err  error
}

func (s *stubMailer) Send(to, subject, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, struct{ to, subject, body string }{to, subject, body})
	return nil
}

func TestOverdueReminderSendsDigest(t *testing.T) {
	lister := &stubLister{projects: []domain.LocalizationProjectDTO{
		{
			InquiryID:        uuid.New(),
			PartNumber:       "IMP-3003",
			SupplierName:     "Local Workshop A",
			TargetFinishDate: "2026-06-01T00:00:00Z",
			Status:           domain.LocalizationOnProgress,
		},
		{
			InquiryID:        uuid.New(),
			PartNumber:       "IMP-3004",
			SupplierName:     "PT Astra Components",
			TargetFinishDate: "2026-07-15T00:00:00Z",
			Status:           domain.LocalizationOnProgress,
		},
	}}
	mail := &stubMailer{}

	job := NewOverdueReminderJob(lister, mail, "planning@ami.example.com", 7, zap.NewNop(), time.Minute)
	job.Run()

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "planning@ami.example.com", mail.sent[0].to)
	assert.Equal(t, "2 localization project(s) overdue", mail.sent[0].subject)
	assert.Contains(t, mail.sent[0].body, "IMP-3003")
	assert.Contains(t, mail.sent[0].body, "PT Astra Components")
}

func TestOverdueReminderNoProjects(t *testing.T) {
	mail := &stubMailer{}
	job := NewOverdueReminderJob(&stubLister{}, mail, "planning@ami.example.com", 7, zap.NewNop(), time.Minute)
	job.Run()

	assert.Empty(t, mail.sent)
}

func TestOverdueReminderListerError(t *testing.T) {
	lister := &stubLister{err: errors.New("db down")}
	mail := &stubMailer{}
	job := NewOverdueReminderJob(lister, mail, "planning@ami.example.com", 7, zap.NewNop(), time.Minute)

	// The run logs and returns; nothing is sent.
	job.Run()
	assert.Empty(t, mail.sent)
}

func TestRegisterOverdueReminderJob(t *testing.T) {
	scheduler := NewScheduler(zap.NewNop())

	err := RegisterOverdueReminderJob(
		scheduler, &stubLister{}, &stubMailer{},
		"planning@ami.example.com", 7, zap.NewNop(),
		"0 7 * * MON-FRI", time.Minute,
	)
	require.NoError(t, err)
	assert.Contains(t, scheduler.GetJobNames(), OverdueReminderJobName)

	// Duplicate registration is rejected.
	err = RegisterOverdueReminderJob(
		scheduler, &stubLister{}, &stubMailer{},
		"planning@ami.example.com", 7, zap.NewNop(),
		"0 7 * * MON-FRI", time.Minute,
	)
	assert.Error(t, err)
}
