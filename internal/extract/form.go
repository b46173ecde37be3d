// Package extract turns a submitted form into a captured Message.
package extract

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// ErrMalformedSubmission is returned when the request body is not a form.
var ErrMalformedSubmission = errors.New("malformed submission")

// Part is one field of a submitted form, in submission order.
type Part struct {
	Name     string
	Value    string
	FileName string
	IsFile   bool
}

// Form is an ordered view of a submission. Unlike multipart.Form it keeps
// file and value parts in one sequence, so relative order survives.
type Form struct {
	Parts []Part
}

// Get returns the first non-file value for name.
func (f *Form) Get(name string) (string, bool) {
	for _, p := range f.Parts {
		if p.Name == name && !p.IsFile {
			return p.Value, true
		}
	}
	return "", false
}

// GetAll returns every part named name, file or not.
func (f *Form) GetAll(name string) []Part {
	var parts []Part
	for _, p := range f.Parts {
		if p.Name == name {
			parts = append(parts, p)
		}
	}
	return parts
}

// FromRequest reads the request body as multipart/form-data or, failing a
// multipart content type, as application/x-www-form-urlencoded.
func FromRequest(r *http.Request) (*Form, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("%w: content type: %v", ErrMalformedSubmission, err)
	}

	switch mediaType {
	case "multipart/form-data":
		mr, err := r.MultipartReader()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSubmission, err)
		}
		return ReadMultipart(mr)
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSubmission, err)
		}
		return fromURLEncoded(r), nil
	default:
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrMalformedSubmission, mediaType)
	}
}

// ReadMultipart streams every part of mr. File contents are discarded;
// only their names are kept.
func ReadMultipart(mr *multipart.Reader) (*Form, error) {
	form := &Form{}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return form, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSubmission, err)
		}

		p, err := readPart(part)
		part.Close()
		if err != nil {
			return nil, err
		}
		if p.Name != "" {
			form.Parts = append(form.Parts, p)
		}
	}
}

func readPart(part *multipart.Part) (Part, error) {
	p := Part{Name: part.FormName()}

	_, params, _ := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if filename, ok := params["filename"]; ok {
		p.IsFile = true
		if filename != "" {
			p.FileName = filepath.Base(filename)
		}
		if _, err := io.Copy(io.Discard, part); err != nil {
			return Part{}, fmt.Errorf("%w: reading %s: %v", ErrMalformedSubmission, p.Name, err)
		}
		return p, nil
	}

	var b strings.Builder
	if _, err := io.Copy(&b, part); err != nil {
		return Part{}, fmt.Errorf("%w: reading %s: %v", ErrMalformedSubmission, p.Name, err)
	}
	p.Value = b.String()
	return p, nil
}

func fromURLEncoded(r *http.Request) *Form {
	form := &Form{}
	for name, values := range r.PostForm {
		for _, v := range values {
			form.Parts = append(form.Parts, Part{Name: name, Value: v})
		}
	}
	return form
}
