package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
)

// OverdueReminderJobName is the name of the localization overdue reminder job
const OverdueReminderJobName = "localization_overdue_reminder"

// OverdueLister lists localization projects past their target finish date.
// This interface allows the job to call the service without importing the
// service package directly.
type OverdueLister interface {
	ListOverdue(ctx context.Context, thresholdDays int) ([]domain.LocalizationProjectDTO, error)
}

// ReminderMailer sends the reminder e-mail
type ReminderMailer interface {
	Send(to, subject, body string) error
}

// OverdueReminderJob mails a digest of overdue localization projects to the
// aftermarket planning team.
type OverdueReminderJob struct {
	localizations OverdueLister
	mailer        ReminderMailer
	recipient     string
	thresholdDays int
	logger        *zap.Logger
	timeout       time.Duration
}

// NewOverdueReminderJob creates a new overdue reminder job.
// The timeout controls how long one run is allowed to take.
func NewOverdueReminderJob(
	localizations OverdueLister,
	mailer ReminderMailer,
	recipient string,
	thresholdDays int,
	logger *zap.Logger,
	timeout time.Duration,
) *OverdueReminderJob {
	return &OverdueReminderJob{
		localizations: localizations,
		mailer:        mailer,
		recipient:     recipient,
		thresholdDays: thresholdDays,
		logger:        logger,
		timeout:       timeout,
	}
}

// Run executes the overdue reminder job.
// This is called by the scheduler according to the cron expression.
// A run with no overdue projects sends nothing.
func (j *OverdueReminderJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	projects, err := j.localizations.ListOverdue(ctx, j.thresholdDays)
	if err != nil {
		j.logger.Error("overdue reminder query failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	if len(projects) == 0 {
		j.logger.Info("no overdue localization projects")
		return
	}

	subject := fmt.Sprintf("%d localization project(s) overdue", len(projects))
	body := j.digest(projects)

	if err := j.mailer.Send(j.recipient, subject, body); err != nil {
		j.logger.Error("overdue reminder send failed",
			zap.String("recipient", j.recipient),
			zap.Error(err))
		return
	}

	j.logger.Info("overdue reminder sent",
		zap.Int("projects", len(projects)),
		zap.String("recipient", j.recipient),
		zap.Duration("duration", time.Since(start)))
}

// digest renders the plain-text reminder body
func (j *OverdueReminderJob) digest(projects []domain.LocalizationProjectDTO) string {
	var b strings.Builder
	b.WriteString("The following localization projects are past their target finish date:\n\n")
	for _, p := range projects {
		fmt.Fprintf(&b, "- %s at %s (target %s, inquiry %s)\n",
			p.PartNumber, p.SupplierName, p.TargetFinishDate, p.InquiryID)
	}
	return b.String()
}

// RegisterOverdueReminderJob registers the overdue reminder job with the
// scheduler. The cronExpr should be a valid 5-field cron expression
// (e.g., "0 7 * * MON-FRI" for weekday mornings).
func RegisterOverdueReminderJob(
	scheduler *Scheduler,
	localizations OverdueLister,
	mailer ReminderMailer,
	recipient string,
	thresholdDays int,
	logger *zap.Logger,
	cronExpr string,
	timeout time.Duration,
) error {
	job := NewOverdueReminderJob(localizations, mailer, recipient, thresholdDays, logger, timeout)
	return scheduler.AddJob(OverdueReminderJobName, cronExpr, job.Run)
}
