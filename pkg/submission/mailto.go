package submission

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// Opener hands a URL to whatever the platform uses to open it.
type Opener interface {
	Open(ctx context.Context, rawURL string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, rawURL string) error

func (f OpenerFunc) Open(ctx context.Context, rawURL string) error { return f(ctx, rawURL) }

// SystemOpener opens URLs with the desktop's default handler.
type SystemOpener struct{}

func (SystemOpener) Open(ctx context.Context, rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", rawURL)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", rawURL)
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("open %s: %w: %s", cmd.Path, err, strings.TrimSpace(string(out)))
	}
	return nil
}

const mailtoSubject = "New Contact Form Submission - Metal Streets Media"

// MailtoTransport hands the record to the user's mail client. Delivery then
// depends on the user pressing send, which the success notice says.
type MailtoTransport struct {
	contact string
	opener  Opener
}

func NewMailtoTransport(contact string, opener Opener) *MailtoTransport {
	if opener == nil {
		opener = SystemOpener{}
	}
	return &MailtoTransport{contact: contact, opener: opener}
}

func (t *MailtoTransport) Name() string { return "mailto" }

func (t *MailtoTransport) Deliver(ctx context.Context, rec Record) Result {
	if err := t.opener.Open(ctx, MailtoURL(t.contact, rec)); err != nil {
		return Failure(err)
	}
	return Success(MailtoNotice)
}

// MailtoURL builds the mailto: link with every field labeled in the body.
func MailtoURL(contact string, rec Record) string {
	var body strings.Builder
	body.WriteString("New contact form submission\n\n")
	lines := [][2]string{
		{"Name", rec.Name},
		{"Email", rec.Email},
		{"Phone", rec.Phone},
		{"Country", rec.Country},
		{"Business Type", rec.BusinessType},
		{"Services", rec.Services},
	}
	if rec.Budget != "" {
		lines = append(lines, [2]string{"Budget", rec.Budget})
	}
	lines = append(lines, [2]string{"Submitted", rec.Timestamp})
	for _, l := range lines {
		body.WriteString(l[0] + ": " + l[1] + "\n")
	}

	return "mailto:" + contact + "?subject=" + mailtoEscape(mailtoSubject) + "&body=" + mailtoEscape(body.String())
}

// mailtoEscape percent-encodes s for a mailto header value. Mail clients do
// not decode '+' as a space, so spaces become %20.
func mailtoEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
