package notificationhandler

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"hr-portal-backend/config"
	"hr-portal-backend/lib/smtp"
	"hr-portal-backend/lib/utils/helpers"
)

// Kind selects the email template.
type Kind string

const (
	KindRequestSubmitted       Kind = "request_submitted"
	KindManagerApproved        Kind = "manager_approved"
	KindRequestApproved        Kind = "request_approved"
	KindRequestRejected        Kind = "request_rejected"
	KindJustificationSubmitted Kind = "justification_submitted"
	KindJustificationReviewed  Kind = "justification_reviewed"
)

type Message struct {
	Kind       Kind
	Recipients []string
	// Params fill the template: request_kind, employee, actor, details,
	// reason, link.
	Params map[string]string
}

type Provider interface {
	Notify(msg Message)
	Start(ctx context.Context)
}

var Instance Provider

func NewHandler() {
	cfg := config.Conf.Notification
	Instance = &impl{
		queue:       make(chan Message, cfg.QueueSize),
		enabled:     cfg.Enabled == nil || *cfg.Enabled,
		retryDelay:  time.Duration(cfg.RetryDelay) * time.Second,
		maxAttempts: cfg.MaxAttempts,
		sender:      config.Conf.Smtp.From,
		portalURL:   config.Conf.Smtp.PortalURL,
	}
}

type impl struct {
	queue       chan Message
	enabled     bool
	retryDelay  time.Duration
	maxAttempts int
	sender      string
	portalURL   string
}

// Notify queues the message without blocking the caller. Workflow
// decisions never fail because a notification could not be queued.
func (i *impl) Notify(msg Message) {
	logger := log.
		WithField("notification_kind", string(msg.Kind)).
		WithField("recipients", msg.Recipients)
	if !i.enabled {
		logger.Debug("notifications disabled, message dropped")
		return
	}
	select {
	case i.queue <- msg:
	default:
		logger.Warn("notification queue is full, message dropped")
	}
}

func (i *impl) Start(ctx context.Context) {
	go i.dispatchLoop(ctx)
}

func (i *impl) dispatchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Info("notification dispatcher stopped")
			return
		case msg := <-i.queue:
			i.deliver(ctx, msg)
		}
	}
}

func (i *impl) deliver(ctx context.Context, msg Message) {
	subject, body := render(msg, i.portalURL)
	for _, to := range msg.Recipients {
		to = helpers.NormalizeEmail(to)
		if to == "" {
			continue
		}
		logger := log.
			WithField("notification_kind", string(msg.Kind)).
			WithField("recipient", to)
		var err error
		for attempt := 1; attempt <= i.maxAttempts; attempt++ {
			if helpers.IsContextDone(ctx) {
				return
			}
			err = smtp.Instance.SendEMail(i.sender, to, body, subject)
			if err == nil {
				break
			}
			logger.WithError(err).Warnf("delivery attempt %d failed", attempt)
			if attempt < i.maxAttempts {
				select {
				case <-ctx.Done():
					return
				case <-time.After(i.retryDelay):
				}
			}
		}
		if err != nil {
			logger.WithError(err).Error("notification dropped after retries")
		}
	}
}

func render(msg Message, portalURL string) (subject, body string) {
	p := func(key string) string { return msg.Params[key] }
	link := portalURL
	if p("link") != "" {
		link = portalURL + p("link")
	}
	switch msg.Kind {
	case KindRequestSubmitted:
		subject = fmt.Sprintf("New %s request from %s", p("request_kind"), p("employee"))
		body = fmt.Sprintf("%s submitted a %s request.\n%s\n\nReview it here: %s",
			p("employee"), p("request_kind"), p("details"), link)
	case KindManagerApproved:
		subject = fmt.Sprintf("%s request awaiting final approval", p("request_kind"))
		body = fmt.Sprintf("The %s request from %s was approved by %s and needs final approval.\n%s\n\nReview it here: %s",
			p("request_kind"), p("employee"), p("actor"), p("details"), link)
	case KindRequestApproved:
		subject = fmt.Sprintf("Your %s request was approved", p("request_kind"))
		body = fmt.Sprintf("Your %s request was approved by %s.\n%s\n\nSee the details: %s",
			p("request_kind"), p("actor"), p("details"), link)
	case KindRequestRejected:
		subject = fmt.Sprintf("Your %s request was rejected", p("request_kind"))
		body = fmt.Sprintf("Your %s request was rejected by %s.\nReason: %s\n\nSee the details: %s",
			p("request_kind"), p("actor"), p("reason"), link)
	case KindJustificationSubmitted:
		subject = fmt.Sprintf("Trip expense justification from %s", p("employee"))
		body = fmt.Sprintf("%s submitted expense justification #%s for the trip to %s.\n\nReview it here: %s",
			p("employee"), p("details"), p("destination"), link)
	case KindJustificationReviewed:
		subject = "Your trip expense justification was reviewed"
		body = fmt.Sprintf("Your expense justification was %s by %s.\n%s\n\nSee the details: %s",
			p("details"), p("actor"), p("reason"), link)
	default:
		subject = "HR Portal notification"
		body = p("details")
	}
	return subject, body
}
