package extract

import (
	"mailgun-mock/internal/model"
)

// UnknownAttachment stands in for an attachment part that is not a file upload.
const UnknownAttachment = "Unknown"

// Extractor builds Messages from forms, stamping each with an id and time.
type Extractor struct {
	ids *model.IDGenerator
}

func NewExtractor(ids *model.IDGenerator) *Extractor {
	return &Extractor{ids: ids}
}

// Extract never fails: missing fields are left empty.
func (e *Extractor) Extract(form *Form) *model.Message {
	id, now := e.ids.Next()
	msg := model.NewMessage(id, now)

	msg.From, _ = form.Get("from")
	msg.To, _ = form.Get("to")
	msg.Cc, _ = form.Get("cc")
	msg.Bcc, _ = form.Get("bcc")
	msg.Subject, _ = form.Get("subject")
	msg.TextBody, _ = form.Get("text")
	msg.HTMLBody, _ = form.Get("html")

	for _, part := range form.GetAll("attachment") {
		if part.IsFile {
			msg.AttachmentNames = append(msg.AttachmentNames, part.FileName)
		} else {
			msg.AttachmentNames = append(msg.AttachmentNames, UnknownAttachment)
		}
	}

	return msg
}
