// Package export writes captured messages out as an mbox archive.
package export

import (
	"fmt"
	"io"
	"net/mail"
	"strings"

	"github.com/emersion/go-mbox"
	gomail "github.com/emersion/go-message/mail"
	"github.com/google/uuid"

	"mailgun-mock/internal/model"
)

const (
	messageIDDomain   = "mailgun-mock.local"
	attachmentsHeader = "X-Mock-Attachments"
	mockIDHeader      = "X-Mock-Id"
	unknownSender     = "MAILER-DAEMON"
)

// WriteMbox writes messages oldest first, the usual mbox order. messages is
// expected newest first, as the store hands it out.
func WriteMbox(w io.Writer, messages []model.Message) error {
	mw := mbox.NewWriter(w)
	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		entry, err := mw.CreateMessage(envelopeSender(msg.From), msg.ReceivedAt)
		if err != nil {
			return fmt.Errorf("failed to start mbox entry %s: %w", msg.ID, err)
		}
		if err := writeMessage(entry, &msg); err != nil {
			return fmt.Errorf("failed to write mbox entry %s: %w", msg.ID, err)
		}
	}
	return mw.Close()
}

func writeMessage(w io.Writer, msg *model.Message) error {
	var h gomail.Header
	h.SetDate(msg.ReceivedAt)
	h.SetMessageID(uuid.New().String() + "@" + messageIDDomain)
	h.SetSubject(msg.Subject)
	h.Set(mockIDHeader, msg.ID)
	setText(&h, "From", msg.From)
	setText(&h, "To", msg.To)
	setText(&h, "Cc", msg.Cc)
	setText(&h, "Bcc", msg.Bcc)
	if len(msg.AttachmentNames) > 0 {
		h.SetText(attachmentsHeader, strings.Join(msg.AttachmentNames, ", "))
	}

	mw, err := gomail.CreateWriter(w, h)
	if err != nil {
		return err
	}

	iw, err := mw.CreateInline()
	if err != nil {
		return err
	}
	if err := writePart(iw, "text/plain", msg.TextBody); err != nil {
		return err
	}
	if msg.HTMLBody != "" {
		if err := writePart(iw, "text/html", msg.HTMLBody); err != nil {
			return err
		}
	}
	if err := iw.Close(); err != nil {
		return err
	}
	return mw.Close()
}

func writePart(iw *gomail.InlineWriter, contentType, body string) error {
	var h gomail.InlineHeader
	h.SetContentType(contentType, map[string]string{"charset": "utf-8"})

	pw, err := iw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(pw, body); err != nil {
		pw.Close()
		return err
	}
	return pw.Close()
}

func setText(h *gomail.Header, key, value string) {
	if value != "" {
		h.SetText(key, value)
	}
}

// envelopeSender picks a bare address for the mbox "From " line.
func envelopeSender(from string) string {
	if from == "" {
		return unknownSender
	}
	if addr, err := mail.ParseAddress(from); err == nil {
		return addr.Address
	}
	if fields := strings.Fields(from); len(fields) == 1 {
		return fields[0]
	}
	return unknownSender
}
