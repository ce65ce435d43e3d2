package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jobportal/recruitment/internal/cache"
	"github.com/jobportal/recruitment/internal/events"
	"github.com/jobportal/recruitment/internal/services"
	"github.com/jobportal/recruitment/pkg/mail"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, msg mail.Message) error {
	return m.Called(ctx, msg).Error(0)
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (r *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingMailer) messages() []mail.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mail.Message(nil), r.sent...)
}

type stubReports struct {
	report *services.DailyReport
	err    error
}

func (s stubReports) GenerateDailyReport(context.Context) (*services.DailyReport, error) {
	return s.report, s.err
}

func TestSendEmailSucceeds(t *testing.T) {
	d := startDispatcher(t, Config{Workers: 1})
	mailer := &mockMailer{}
	msg := mail.Message{To: []string{"candidate@example.com"}, Subject: "Hi", Body: "Hello"}
	mailer.On("Send", mock.Anything, msg).Return(nil).Once()

	handle, err := d.Submit(SendEmail(mailer, msg, DefaultEmailRetry))
	require.NoError(t, err)

	result, err := waitHandle(t, handle)
	require.NoError(t, err)
	require.Equal(t, Outcome{Status: "success", Message: "Email sent successfully"}, result)
	mailer.AssertExpectations(t)
}

func TestSendEmailRetriesThreeTimes(t *testing.T) {
	d := startDispatcher(t, Config{Workers: 1})
	mailer := &mockMailer{}
	mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	handle, err := d.Submit(SendEmail(mailer, mail.Message{To: []string{"a@example.com"}}, RetryPolicy{Retries: 3, Delay: time.Millisecond}))
	require.NoError(t, err)

	result, err := waitHandle(t, handle)
	require.Error(t, err)
	require.Equal(t, Outcome{Status: "error", Message: "Failed to send email: connection reset"}, result)
	mailer.AssertNumberOfCalls(t, "Send", 4)
}

func TestSendEmailWithoutCredentialsFailsFast(t *testing.T) {
	d := startDispatcher(t, Config{Workers: 1})
	mailer := &mockMailer{}
	mailer.On("Send", mock.Anything, mock.Anything).Return(mail.ErrNoCredentials)

	handle, err := d.Submit(SendEmail(mailer, mail.Message{To: []string{"a@example.com"}}, DefaultEmailRetry))
	require.NoError(t, err)

	result, err := waitHandle(t, handle)
	require.ErrorIs(t, err, mail.ErrNoCredentials)
	require.Equal(t, Outcome{Status: "error", Message: "Email credentials not configured"}, result)
	mailer.AssertNumberOfCalls(t, "Send", 1)
}

func TestProcessApplicationMarksCompleted(t *testing.T) {
	ctx := context.Background()
	d := startDispatcher(t, Config{Workers: 1})
	facade := cache.NewFacade(cache.NewMemoryStore(time.Minute))

	handle, err := d.Submit(ProcessApplication(facade, "app-1", 0))
	require.NoError(t, err)

	result, err := waitHandle(t, handle)
	require.NoError(t, err)
	require.Equal(t, "app-1", result.(Outcome).ApplicationID)

	var state string
	require.True(t, facade.Get(ctx, ApplicationProcessingKey("app-1"), &state))
	require.Equal(t, "completed", state)
}

func TestProcessApplicationFailsWithoutCache(t *testing.T) {
	d := startDispatcher(t, Config{Workers: 1})

	handle, err := d.Submit(ProcessApplication(cache.NewFacade(nil), "app-2", 0))
	require.NoError(t, err)

	result, err := waitHandle(t, handle)
	require.Error(t, err)
	require.Equal(t, "error", result.(Outcome).Status)
}

func TestDailyReportTask(t *testing.T) {
	d := startDispatcher(t, Config{Workers: 1})
	report := &services.DailyReport{Date: "2024-06-01", NewJobs: 2}

	handle, err := d.Submit(DailyReport(stubReports{report: report}))
	require.NoError(t, err)
	result, err := waitHandle(t, handle)
	require.NoError(t, err)
	require.Same(t, report, result)

	handle, err = d.Submit(DailyReport(stubReports{err: errors.New("db gone")}))
	require.NoError(t, err)
	result, err = waitHandle(t, handle)
	require.Error(t, err)
	require.Equal(t, Outcome{Status: "error", Message: "Failed to generate report: db gone"}, result)
}

func TestNotifierQueuesWorkForEvents(t *testing.T) {
	ctx := context.Background()
	d := startDispatcher(t, Config{Workers: 2})
	mailer := &recordingMailer{}
	facade := cache.NewFacade(cache.NewMemoryStore(time.Minute))

	bus := EventBus.New()
	notifier := NewNotifier(d, mailer, facade, NotifierConfig{AdminAddress: "ops@portal.example"})
	require.NoError(t, notifier.Subscribe(bus))

	bus.Publish(events.InquiryCreatedTopic, events.InquiryCreated{
		InquiryID: "inq-1", EmployerName: "Acme", ContactEmail: "hr@acme.example", IsUrgent: true,
	})
	bus.Publish(events.ApplicationSubmittedTopic, events.ApplicationSubmitted{
		ApplicationID: "app-9", JobTitle: "Chef", ApplicantName: "Njeri", Email: "njeri@example.com",
	})

	require.Eventually(t, func() bool { return len(mailer.messages()) == 2 }, 5*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		var state string
		return facade.Get(ctx, ApplicationProcessingKey("app-9"), &state) && state == "completed"
	}, 5*time.Second, 10*time.Millisecond)

	subjects := []string{}
	for _, msg := range mailer.messages() {
		subjects = append(subjects, msg.Subject)
	}
	require.ElementsMatch(t, []string{"[URGENT] New employer inquiry from Acme", "Application received: Chef"}, subjects)
}
