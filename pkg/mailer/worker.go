package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	tpl "github.com/oksasatya/bookworm-oauth/pkg/mailer/templates"
)

// Sender delivers one rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

var _ Sender = (*Mailgun)(nil)

// ErrBadJob marks a message that can never be sent and must not be requeued.
var ErrBadJob = errors.New("bad email job")

// Worker turns queued EmailJobs into sent mail.
type Worker struct {
	Sender      Sender
	SendTimeout time.Duration
}

func NewWorker(s Sender) *Worker {
	return &Worker{Sender: s, SendTimeout: 15 * time.Second}
}

// Handle decodes, renders and sends one message body. Errors wrapping
// ErrBadJob are permanent; any other error is worth a retry.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: %v", ErrBadJob, err)
	}
	if job.To == "" {
		return fmt.Errorf("%w: missing recipient", ErrBadJob)
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := tpl.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w: render %s: %v", ErrBadJob, job.Template, err)
		}
		subject, text, html = s, t, h
	}
	if subject == "" || (text == "" && html == "") {
		return fmt.Errorf("%w: empty message", ErrBadJob)
	}

	sendCtx, cancel := context.WithTimeout(ctx, w.SendTimeout)
	defer cancel()
	return w.Sender.Send(sendCtx, job.To, subject, text, html)
}
