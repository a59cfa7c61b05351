package worker

import (
	"context"
	"fmt"
	"time"

	"cadence-support/config"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

// AlertSender is the mailer surface the worker needs; *utils.AlertMailer
// satisfies it
type AlertSender interface {
	SendServiceDownAlert(serviceName, url string, attempts int, lastErr error) error
}

// HealthWorker periodically pings the upstream services the support panel
// depends on and mails the on-call list when one stays unreachable.
type HealthWorker struct {
	Services []config.ServiceCheck
	Mailer   AlertSender
	Logger   *logrus.Logger

	client       *fasthttp.Client
	attempts     int
	retryDelay   time.Duration
	pollInterval time.Duration
}

func NewHealthWorker(services []config.ServiceCheck, mailer AlertSender, logger *logrus.Logger) *HealthWorker {
	return &HealthWorker{
		Services: services,
		Mailer:   mailer,
		Logger:   logger,
		client: &fasthttp.Client{
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
		attempts:     3,
		retryDelay:   10 * time.Second,
		pollInterval: time.Minute,
	}
}

func (hw *HealthWorker) Start(ctx context.Context) {
	if len(hw.Services) == 0 {
		hw.Logger.Info("Health worker disabled, no services configured")
		return
	}

	// Initial delay to let the server start up
	time.Sleep(10 * time.Second)

	hw.Logger.WithField("services", len(hw.Services)).Info("Health worker started")

	ticker := time.NewTicker(hw.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			hw.Logger.Info("Health worker shutting down...")
			return
		case <-ticker.C:
			hw.checkAll(ctx)
		}
	}
}

func (hw *HealthWorker) checkAll(ctx context.Context) {
	for _, service := range hw.Services {
		if ctx.Err() != nil {
			return
		}
		if err := hw.checkService(ctx, service); err != nil {
			hw.Logger.WithFields(logrus.Fields{
				"service": service.Name,
				"url":     service.URL,
			}).WithError(err).Error("Service failed all health checks")

			sentry.CaptureException(fmt.Errorf("service %s failed health checks: %w", service.Name, err))
			if mailErr := hw.Mailer.SendServiceDownAlert(service.Name, service.URL, hw.attempts, err); mailErr != nil {
				hw.Logger.WithError(mailErr).Error("Failed to send service-down alert")
			}
		}
	}
}

// checkService pings one service, retrying before declaring it down. A
// transient blip should not page anyone at 3am.
func (hw *HealthWorker) checkService(ctx context.Context, service config.ServiceCheck) error {
	var lastErr error
	for attempt := 1; attempt <= hw.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(hw.retryDelay):
			}
		}

		statusCode, _, err := hw.client.GetTimeout(nil, service.URL, 5*time.Second)
		if err != nil {
			lastErr = err
			hw.Logger.WithFields(logrus.Fields{
				"service": service.Name,
				"attempt": attempt,
			}).WithError(err).Warn("Health check attempt failed")
			continue
		}
		if statusCode != fasthttp.StatusOK {
			lastErr = fmt.Errorf("unexpected status %d", statusCode)
			hw.Logger.WithFields(logrus.Fields{
				"service": service.Name,
				"attempt": attempt,
				"status":  statusCode,
			}).Warn("Health check attempt failed")
			continue
		}
		return nil
	}
	return lastErr
}
