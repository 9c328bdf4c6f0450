package mailer

import (
	"context"
	"time"

	tpl "github.com/oksasatya/bookworm-oauth/pkg/mailer/templates"
)

// JobPublisher puts a JSON message on the email queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// LoginEvent describes a completed sign-in.
type LoginEvent struct {
	Name      string
	Email     string
	Provider  string
	IP        string
	UserAgent string
	At        time.Time
}

// QueueNotifier enqueues a login notification for the email worker.
type QueueNotifier struct {
	Pub     JobPublisher
	AppName string
}

func NewQueueNotifier(pub JobPublisher, appName string) *QueueNotifier {
	return &QueueNotifier{Pub: pub, AppName: appName}
}

func (n *QueueNotifier) NotifyLogin(ctx context.Context, ev LoginEvent) error {
	data := tpl.LoginNotificationData{
		AppName:   n.AppName,
		Name:      ev.Name,
		Email:     ev.Email,
		Provider:  ev.Provider,
		IP:        ev.IP,
		UserAgent: ev.UserAgent,
		Time:      ev.At.UTC().Format("02 January 2006, 15:04 MST"),
	}
	job := EmailJob{
		To:       ev.Email,
		Template: tpl.LoginNotification,
		Data:     tpl.ToMap(data),
	}
	return n.Pub.PublishJSON(ctx, job)
}
