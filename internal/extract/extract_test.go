package extract

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailgun-mock/internal/model"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newExtractor() *Extractor {
	return NewExtractor(model.NewIDGenerator(func() time.Time { return fixedNow }))
}

type formBuilder struct {
	buf bytes.Buffer
	w   *multipart.Writer
}

func newFormBuilder() *formBuilder {
	b := &formBuilder{}
	b.w = multipart.NewWriter(&b.buf)
	return b
}

func (b *formBuilder) field(t *testing.T, name, value string) *formBuilder {
	require.NoError(t, b.w.WriteField(name, value))
	return b
}

func (b *formBuilder) file(t *testing.T, name, filename, content string) *formBuilder {
	fw, err := b.w.CreateFormFile(name, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	return b
}

func (b *formBuilder) request(t *testing.T) *http.Request {
	require.NoError(t, b.w.Close())
	req := httptest.NewRequest(http.MethodPost, "/v3/example.com/messages", &b.buf)
	req.Header.Set("Content-Type", b.w.FormDataContentType())
	return req
}

func TestExtractAllFields(t *testing.T) {
	req := newFormBuilder().
		field(t, "from", "a@x.com").
		field(t, "to", "b@y.com").
		field(t, "cc", "c@z.com").
		field(t, "bcc", "d@z.com").
		field(t, "subject", "Hi").
		field(t, "text", "Hello").
		field(t, "html", "<p>Hello</p>").
		request(t)

	form, err := FromRequest(req)
	require.NoError(t, err)

	msg := newExtractor().Extract(form)
	assert.Equal(t, "1709294400000", msg.ID)
	assert.Equal(t, fixedNow, msg.ReceivedAt)
	assert.Equal(t, "a@x.com", msg.From)
	assert.Equal(t, "b@y.com", msg.To)
	assert.Equal(t, "c@z.com", msg.Cc)
	assert.Equal(t, "d@z.com", msg.Bcc)
	assert.Equal(t, "Hi", msg.Subject)
	assert.Equal(t, "Hello", msg.TextBody)
	assert.Equal(t, "<p>Hello</p>", msg.HTMLBody)
	assert.Empty(t, msg.AttachmentNames)
}

func TestExtractMissingFieldsAreEmpty(t *testing.T) {
	req := newFormBuilder().
		field(t, "from", "a@x.com").
		field(t, "subject", "Only two").
		request(t)

	form, err := FromRequest(req)
	require.NoError(t, err)

	msg := newExtractor().Extract(form)
	assert.Equal(t, "a@x.com", msg.From)
	assert.Equal(t, "Only two", msg.Subject)
	assert.Empty(t, msg.To)
	assert.Empty(t, msg.Cc)
	assert.Empty(t, msg.Bcc)
	assert.Empty(t, msg.TextBody)
	assert.Empty(t, msg.HTMLBody)
	assert.NotNil(t, msg.AttachmentNames)
	assert.Empty(t, msg.AttachmentNames)
}

func TestExtractAttachmentNamesKeepOrder(t *testing.T) {
	req := newFormBuilder().
		field(t, "subject", "files").
		file(t, "attachment", "a.pdf", "%PDF-1.4").
		field(t, "attachment", "not a file").
		file(t, "attachment", "dir/b.txt", "hello").
		request(t)

	form, err := FromRequest(req)
	require.NoError(t, err)

	msg := newExtractor().Extract(form)
	assert.Equal(t, []string{"a.pdf", "Unknown", "b.txt"}, msg.AttachmentNames)
}

func TestExtractFileWithEmptyFilename(t *testing.T) {
	b := newFormBuilder()
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="attachment"; filename=""`)
	pw, err := b.w.CreatePart(h)
	require.NoError(t, err)
	_, err = pw.Write([]byte("data"))
	require.NoError(t, err)

	form, err := FromRequest(b.request(t))
	require.NoError(t, err)

	msg := newExtractor().Extract(form)
	assert.Equal(t, []string{""}, msg.AttachmentNames)
}

func TestExtractFirstValueWins(t *testing.T) {
	req := newFormBuilder().
		field(t, "to", "first@x.com").
		field(t, "to", "second@x.com").
		request(t)

	form, err := FromRequest(req)
	require.NoError(t, err)

	assert.Equal(t, "first@x.com", newExtractor().Extract(form).To)
}

func TestExtractURLEncoded(t *testing.T) {
	body := url.Values{
		"from":       {"a@x.com"},
		"subject":    {"Encoded"},
		"attachment": {"inline-data"},
	}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	form, err := FromRequest(req)
	require.NoError(t, err)

	msg := newExtractor().Extract(form)
	assert.Equal(t, "a@x.com", msg.From)
	assert.Equal(t, "Encoded", msg.Subject)
	assert.Equal(t, []string{"Unknown"}, msg.AttachmentNames)
}

func TestFromRequestRejectsNonForms(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		body        string
	}{
		{name: "json", contentType: "application/json", body: `{"from":"a@x.com"}`},
		{name: "missing content type", contentType: "", body: "from=a"},
		{name: "multipart without boundary", contentType: "multipart/form-data", body: "x"},
		{name: "truncated multipart", contentType: "multipart/form-data; boundary=abc", body: "--abc\r\nContent-Disposition: form-data; name=\"from\"\r\n\r\na@x.com"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(tc.body))
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}

			_, err := FromRequest(req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedSubmission))
		})
	}
}
