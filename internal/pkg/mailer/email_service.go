package mailer

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"cubie-assistant/internal/pkg/logger"
	"cubie-assistant/pkg/retry"
)

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Mail struct {
	To         []string
	Subject    string
	HTMLBody   string
	Attachment *Attachment
}

// IEmailService is the mail transport: send(to, subject, html_body, attachment?).
type IEmailService interface {
	Send(ctx context.Context, mail Mail) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderName string, log logger.ILogger) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
		logger:      log,
	}
}

func (s *emailService) buildMessage(mail Mail) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", mail.To...)
	m.SetHeader("Subject", mail.Subject)
	m.SetBody("text/html", mail.HTMLBody)

	if att := mail.Attachment; att != nil && len(att.Data) > 0 {
		data := att.Data
		m.Attach(att.Filename,
			gomail.SetHeader(map[string][]string{"Content-Type": {att.ContentType}}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		)
	}
	return m
}

// Send dials with one retry but transmits at most once: a failure after the
// connection is established is reported, never retried.
func (s *emailService) Send(ctx context.Context, mail Mail) error {
	if len(mail.To) == 0 {
		return fmt.Errorf("mail has no recipients")
	}
	m := s.buildMessage(mail)

	var conn gomail.SendCloser
	err := retry.Do(ctx, retry.OneRetry, func(context.Context) error {
		c, dialErr := s.dialer.Dial()
		if dialErr != nil {
			return dialErr
		}
		conn = c
		return nil
	})
	if err != nil {
		s.logger.Error("MAILER", "SMTP dial failed", map[string]interface{}{"error": err})
		return fmt.Errorf("smtp dial: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		defer conn.Close()
		done <- gomail.Send(conn, m)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("smtp send: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			s.logger.Error("MAILER", "SMTP send failed", map[string]interface{}{"error": err, "recipients": len(mail.To)})
			return fmt.Errorf("smtp send: %w", err)
		}
	}

	s.logger.Info("MAILER", "Mail sent", map[string]interface{}{"recipients": len(mail.To), "subject": mail.Subject})
	return nil
}
