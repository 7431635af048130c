// Package mail delivers outreach email over SMTP. Delivery failure is an
// ordinary error; the pipeline reports it as an uncontacted lead and moves on.
package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	gomail "github.com/wneessen/go-mail"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/campaign-cli/internal/config"
	"github.com/sells-group/campaign-cli/internal/model"
)

// Sender delivers the drafted outreach email for a lead.
type Sender interface {
	SendOutreach(ctx context.Context, lead model.Lead) error
}

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
// The default target is a local MailHog instance, which takes no auth and no TLS.
type SMTPSender struct {
	cfg   config.SMTPConfig
	title cases.Caser
}

// NewSMTPSender creates a sender from SMTP config.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		cfg:   cfg,
		title: cases.Title(language.English),
	}
}

func (s *SMTPSender) SendOutreach(ctx context.Context, lead model.Lead) error {
	if strings.TrimSpace(lead.EmailDraft) == "" {
		return eris.Errorf("mail: lead %d has no email draft", lead.ID)
	}

	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.cfg.SenderName, s.cfg.SenderEmail); err != nil {
		return eris.Wrap(err, "mail: from")
	}
	if err := msg.To(lead.Email); err != nil {
		return eris.Wrapf(err, "mail: to %q", lead.Email)
	}
	msg.Subject(s.subject(lead))
	msg.SetBodyString(gomail.TypeTextPlain, s.body(lead))

	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}

	client, err := gomail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return eris.Wrap(err, "mail: client")
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return eris.Wrapf(err, "mail: send to lead %d", lead.ID)
	}
	return nil
}

func (s *SMTPSender) subject(lead model.Lead) string {
	company := lead.Company
	if company == "" {
		company = "your company"
	}
	return fmt.Sprintf("Quick question for %s at %s", s.title.String(lead.FirstName()), company)
}

func (s *SMTPSender) body(lead model.Lead) string {
	return fmt.Sprintf("%s\n\n--\nBest regards,\n%s\n", lead.EmailDraft, s.cfg.SenderName)
}
