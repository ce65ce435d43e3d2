package app

import "github.com/jobportal/recruitment/internal/tasks"

// DispatcherConfig sizes the task dispatcher.
func (c TasksConfig) DispatcherConfig() tasks.Config {
	return tasks.Config{
		Workers:   c.Workers,
		QueueSize: c.QueueSize,
		ResultTTL: c.ResultTTL,
	}
}

// EmailRetry is the retry policy for outbound mail.
func (c TasksConfig) EmailRetry() tasks.RetryPolicy {
	if c.EmailRetries < 0 {
		return tasks.RetryPolicy{Delay: c.RetryDelay}
	}
	return tasks.RetryPolicy{Retries: c.EmailRetries, Delay: c.RetryDelay}
}

// NotifierConfig combines task and email settings for the event notifier.
func (c Config) NotifierConfig() tasks.NotifierConfig {
	return tasks.NotifierConfig{
		AdminAddress:    c.Email.AdminAddress,
		EmailRetry:      c.Tasks.EmailRetry(),
		ProcessingDelay: c.Tasks.ProcessingDelay,
	}
}
