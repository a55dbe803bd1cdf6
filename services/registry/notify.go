package registry

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"
)

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

// Notifier mails a plain-text summary once a batch run finishes, so
// long unattended runs don't require watching the logs.
type Notifier struct {
	config     SmtpConfig
	recipients []string
}

func NewNotifier(config SmtpConfig, recipients []string) Notifier {
	return Notifier{
		config:     config,
		recipients: recipients,
	}
}

func (n Notifier) SendBatchReport(ctx context.Context, report BatchReport) error {
	_, span := tracer.Start(ctx, "SendBatchReport")
	defer span.End()

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Registry Scraper <%s>", n.config.EmailAddress)
	mail.To = n.recipients
	mail.Subject = fmt.Sprintf("Scrape batch finished: %d/%d succeeded",
		len(report.Entries)-report.Failed(), len(report.Entries))
	mail.Text = []byte(formatBatchReport(report))

	addr := fmt.Sprintf("%s:%d", n.config.Server, n.config.Port)
	err := mail.Send(addr, smtp.PlainAuth("", n.config.EmailAddress, n.config.Password, n.config.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send batch report")
		return err
	}
	return nil
}

func formatBatchReport(report BatchReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Batch of %d queries ran from %s to %s.\n\n",
		len(report.Entries),
		report.Started.Format("15:04:05"),
		report.Finished.Format("15:04:05"))

	for _, entry := range report.Entries {
		if entry.Err != nil {
			fmt.Fprintf(&b, "FAILED  %s: %v\n", entry.Query, entry.Err)
			continue
		}
		fmt.Fprintf(&b, "ok      %s: %d companies\n", entry.Query, len(entry.Dossiers))
	}
	return b.String()
}
