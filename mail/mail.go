// Package mail is the outbound delivery capability for email passcodes.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/meetlite/meetlite/config"
	"github.com/meetlite/meetlite/globals"
)

const defaultFrom = "noreply@meetlite.app"

// Mailer delivers a passcode to an address. Implementations must be safe to
// call from any goroutine.
type Mailer interface {
	Deliver(ctx context.Context, address, code, roomID string) error
}

// New picks the mailer for the given configuration: SMTP when a host is
// configured, otherwise a log-only fallback so development setups work
// without a mail account.
func New(cfg *config.Config) Mailer {
	if cfg.SMTPConfig.Host == "" {
		globals.AppLogger.Warn("no smtp host configured, passcodes are logged instead of mailed")
		return &LogMailer{}
	}
	return &SMTPMailer{cfg: cfg.SMTPConfig}
}

// SMTPMailer sends passcodes through a configured SMTP relay.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

func (m *SMTPMailer) Deliver(ctx context.Context, address, code, roomID string) error {
	msg := gomail.NewMsg()
	from := m.cfg.From
	if from == "" {
		from = defaultFrom
	}
	if err := msg.From(from); err != nil {
		return err
	}
	if err := msg.To(address); err != nil {
		return err
	}
	msg.Subject("Your Meeting Room Passcode")
	msg.SetBodyString(gomail.TypeTextPlain,
		fmt.Sprintf("Your meeting room passcode is: %s\nRoom ID: %s\nThis passcode expires in 10 minutes.\n", code, roomID))
	msg.AddAlternativeString(gomail.TypeTextHTML, fmt.Sprintf(
		`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;padding:20px">
<h2>Meeting Room Access Passcode</h2>
<p>Your passcode is:</p>
<div style="background:#f0f0f0;padding:20px;text-align:center;border-radius:8px"><h1 style="letter-spacing:6px">%s</h1></div>
<p>Room ID: %s</p>
<p>This passcode expires in 10 minutes.</p>
</div>`, code, roomID))

	opts := []gomail.Option{gomail.WithPort(m.cfg.Port)}
	if m.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}
	client, err := gomail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return err
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return err
	}
	globals.AppLogger.Info("passcode email sent", "address", address, "room", roomID)
	return nil
}

// LogMailer writes the passcode to the application log. Used when no SMTP
// relay is configured.
type LogMailer struct{}

func (m *LogMailer) Deliver(_ context.Context, address, code, roomID string) error {
	globals.AppLogger.Info("passcode delivery (log only)", "address", address, "code", code, "room", roomID)
	return nil
}
