package tasks

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"github.com/jobportal/recruitment/internal/cache"
	"github.com/jobportal/recruitment/internal/events"
	"github.com/jobportal/recruitment/pkg/logger"
	"github.com/jobportal/recruitment/pkg/mail"
	"github.com/jobportal/recruitment/pkg/metrics"
)

// NotifierConfig controls the work queued in response to domain events.
type NotifierConfig struct {
	// AdminAddress receives new inquiry alerts; empty disables them.
	AdminAddress    string
	EmailRetry      RetryPolicy
	ProcessingDelay time.Duration
}

// Notifier turns domain events into background tasks.
type Notifier struct {
	dispatcher *Dispatcher
	mailer     mail.Mailer
	cache      *cache.Facade
	cfg        NotifierConfig
	log        *zap.Logger
}

// NewNotifier wires the dispatcher to the mailer and cache.
func NewNotifier(dispatcher *Dispatcher, mailer mail.Mailer, c *cache.Facade, cfg NotifierConfig) *Notifier {
	return &Notifier{
		dispatcher: dispatcher,
		mailer:     mailer,
		cache:      c,
		cfg:        cfg,
		log:        logger.WithModule("notifier"),
	}
}

// Subscribe registers the notifier's handlers on bus.
func (n *Notifier) Subscribe(bus EventBus.Bus) error {
	if err := bus.Subscribe(events.InquiryCreatedTopic, n.onInquiryCreated); err != nil {
		return fmt.Errorf("notifier: subscribe %s: %w", events.InquiryCreatedTopic, err)
	}
	if err := bus.Subscribe(events.ApplicationSubmittedTopic, n.onApplicationSubmitted); err != nil {
		return fmt.Errorf("notifier: subscribe %s: %w", events.ApplicationSubmittedTopic, err)
	}
	return nil
}

func (n *Notifier) onInquiryCreated(evt events.InquiryCreated) {
	metrics.InquiriesCreated.WithLabelValues(strconv.FormatBool(evt.IsUrgent)).Inc()

	if strings.TrimSpace(n.cfg.AdminAddress) == "" {
		return
	}

	subject := fmt.Sprintf("New employer inquiry from %s", evt.EmployerName)
	if evt.IsUrgent {
		subject = "[URGENT] " + subject
	}
	n.submit(SendEmail(n.mailer, mail.Message{
		To:      []string{n.cfg.AdminAddress},
		ReplyTo: evt.ContactEmail,
		Subject: subject,
		Body: fmt.Sprintf("%s (%s) sent a new inquiry.\n\nInquiry: %s\nAgency: %s\n",
			evt.EmployerName, evt.ContactEmail, evt.InquiryID, evt.AgencyID),
	}, n.cfg.EmailRetry), zap.String("inquiry_id", evt.InquiryID))
}

func (n *Notifier) onApplicationSubmitted(evt events.ApplicationSubmitted) {
	n.submit(ProcessApplication(n.cache, evt.ApplicationID, n.cfg.ProcessingDelay),
		zap.String("application_id", evt.ApplicationID))

	n.submit(SendEmail(n.mailer, mail.Message{
		To:      []string{evt.Email},
		Subject: fmt.Sprintf("Application received: %s", evt.JobTitle),
		Body: fmt.Sprintf("Dear %s,\n\nThank you for applying for %s. We will review your application and get back to you.\n",
			evt.ApplicantName, evt.JobTitle),
	}, n.cfg.EmailRetry), zap.String("application_id", evt.ApplicationID))
}

func (n *Notifier) submit(task Task, fields ...zap.Field) {
	handle, err := n.dispatcher.Submit(task)
	if err != nil {
		n.log.Warn("task not queued", append(fields, zap.String("task", task.Name), zap.Error(err))...)
		return
	}
	n.log.Debug("task queued", append(fields, zap.String("task", task.Name), zap.String("task_id", handle.ID))...)
}
