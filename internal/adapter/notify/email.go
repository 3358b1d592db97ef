// Package notify delivers notifications about matched documents over
// SMTP.
package notify

import (
	"bufio"
	"context"
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"parlwatch/internal/domain"
	"parlwatch/internal/logger"
)

var notifyLog = logger.New("notify")

// EmailNotifier sends plain-text email to a recipient list. A disabled
// notifier accepts every Notify call as a no-op so callers never need
// to branch on configuration.
type EmailNotifier struct {
	enabled       bool
	host          string
	port          int
	username      string
	password      string
	from          string
	subjectPrefix string
	recipients    []string
}

// Options configures an EmailNotifier.
type Options struct {
	Enabled       bool
	Host          string
	Port          int
	Username      string
	Password      string
	From          string
	SubjectPrefix string
	Recipients    []string
}

// NewEmailNotifier creates a notifier. An enabled notifier requires at
// least one recipient.
func NewEmailNotifier(opts Options) (*EmailNotifier, error) {
	if opts.Enabled && len(opts.Recipients) == 0 {
		return nil, fmt.Errorf("email notifications enabled but no recipients configured")
	}
	return &EmailNotifier{
		enabled:       opts.Enabled,
		host:          opts.Host,
		port:          opts.Port,
		username:      opts.Username,
		password:      opts.Password,
		from:          opts.From,
		subjectPrefix: opts.SubjectPrefix,
		recipients:    opts.Recipients,
	}, nil
}

// LoadRecipients reads email addresses from a newline-delimited file.
// Lines without an @ are skipped.
func LoadRecipients(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recipients file: %w", err)
	}
	defer f.Close()

	var recipients []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		addr := strings.TrimSpace(scanner.Text())
		if addr == "" || !strings.Contains(addr, "@") {
			continue
		}
		recipients = append(recipients, addr)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recipients: %w", err)
	}
	return recipients, nil
}

// Notify sends one message to all recipients.
func (n *EmailNotifier) Notify(ctx context.Context, subject, body string) error {
	if !n.enabled {
		notifyLog.Debug("notifications disabled, skipping", "subject", subject)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := n.buildMessage(subject, body)
	addr := fmt.Sprintf("%s:%d", n.host, n.port)

	var auth smtp.Auth
	if n.username != "" {
		auth = smtp.PlainAuth("", n.username, n.password, n.host)
	}
	if err := smtp.SendMail(addr, auth, n.from, n.recipients, msg); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	notifyLog.Info("notification sent", "recipients", len(n.recipients), "subject", subject)
	return nil
}

func (n *EmailNotifier) buildMessage(subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(n.recipients, ", "))
	fmt.Fprintf(&b, "Subject: %s%s\r\n", n.subjectPrefix, subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// MatchDigest renders the body of a matched-documents notification:
// the ranked keyword totals followed by the matching documents, capped
// at maxDocuments.
func MatchDigest(records []domain.Record, stats domain.AggregateStats, maxDocuments int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Found %d documents matching tracked keywords.\n\n", len(records))

	b.WriteString("KEYWORDS\n")
	for _, tc := range stats {
		fmt.Fprintf(&b, "- %s: %d occurrences\n", tc.Term, tc.Count)
	}
	b.WriteString("\nDOCUMENTS\n")

	shown := records
	if maxDocuments > 0 && len(shown) > maxDocuments {
		shown = shown[:maxDocuments]
	}
	for i, rec := range shown {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rec.Title())
		if date, ok := rec.StringField("date"); ok {
			fmt.Fprintf(&b, "   Date: %s\n", date)
		}
		if url, ok := rec.StringField("url"); ok {
			fmt.Fprintf(&b, "   URL: %s\n", url)
		}
	}
	if len(records) > len(shown) {
		fmt.Fprintf(&b, "\n... and %d more documents\n", len(records)-len(shown))
	}
	return b.String()
}
