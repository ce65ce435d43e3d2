package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jobportal/recruitment/internal/cache"
	"github.com/jobportal/recruitment/internal/services"
	"github.com/jobportal/recruitment/pkg/mail"
)

const (
	EmailTaskName              = "send_email_notification"
	ProcessApplicationTaskName = "process_job_application"
	DailyReportTaskName        = "generate_daily_reports"

	applicationProcessingTTL = time.Hour
)

// DefaultEmailRetry retries a failed delivery three times, a minute apart.
var DefaultEmailRetry = RetryPolicy{Retries: 3, Delay: time.Minute}

// Outcome is the result recorded for the built-in tasks.
type Outcome struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	ApplicationID string `json:"application_id,omitempty"`
}

// SendEmail delivers msg through mailer. Missing credentials or disabled
// delivery fail immediately; other errors follow retry.
func SendEmail(mailer mail.Mailer, msg mail.Message, retry RetryPolicy) Task {
	return Task{
		Name:  EmailTaskName,
		Retry: retry,
		Run: func(ctx context.Context) (any, error) {
			if mailer == nil {
				return nil, Permanent(mail.ErrSMTPDisabled)
			}
			err := mailer.Send(ctx, msg)
			if errors.Is(err, mail.ErrNoCredentials) || errors.Is(err, mail.ErrSMTPDisabled) {
				return nil, Permanent(err)
			}
			if err != nil {
				return nil, err
			}
			return Outcome{Status: "success", Message: "Email sent successfully"}, nil
		},
		Failure: func(err error) any {
			if errors.Is(err, mail.ErrNoCredentials) {
				return Outcome{Status: "error", Message: "Email credentials not configured"}
			}
			return Outcome{Status: "error", Message: fmt.Sprintf("Failed to send email: %v", err)}
		},
	}
}

// ProcessApplication screens an application and marks it completed in the
// cache under application_processing:<id> for an hour. delay stands in for the
// screening work.
func ProcessApplication(c *cache.Facade, applicationID string, delay time.Duration) Task {
	return Task{
		Name: ProcessApplicationTaskName,
		Run: func(ctx context.Context) (any, error) {
			if !sleep(ctx, delay) {
				return nil, ctx.Err()
			}
			if !c.Set(ctx, ApplicationProcessingKey(applicationID), "completed", applicationProcessingTTL) {
				return nil, errors.New("processing status not stored")
			}
			return Outcome{Status: "success", ApplicationID: applicationID, Message: "Application processed successfully"}, nil
		},
		Failure: func(err error) any {
			return Outcome{Status: "error", ApplicationID: applicationID, Message: fmt.Sprintf("Failed to process application: %v", err)}
		},
	}
}

// ApplicationProcessingKey is the cache key holding an application's screening state.
func ApplicationProcessingKey(applicationID string) string {
	return "application_processing:" + applicationID
}

// ReportGenerator produces the daily activity report.
type ReportGenerator interface {
	GenerateDailyReport(ctx context.Context) (*services.DailyReport, error)
}

// DailyReport generates and caches yesterday's report.
func DailyReport(reports ReportGenerator) Task {
	return Task{
		Name: DailyReportTaskName,
		Run: func(ctx context.Context) (any, error) {
			report, err := reports.GenerateDailyReport(ctx)
			if err != nil {
				return nil, err
			}
			return report, nil
		},
		Failure: func(err error) any {
			return Outcome{Status: "error", Message: fmt.Sprintf("Failed to generate report: %v", err)}
		},
	}
}
