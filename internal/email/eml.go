// Package email parses .eml files: sender metadata, body text, and the
// attachments worth OCRing, saved out to temp files.
package email

import (
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// AttachmentKind classifies how an attachment gets turned into OCR pages.
type AttachmentKind int

const (
	KindPDF AttachmentKind = iota
	KindImage
	KindOther
)

// Attachment is one saved attachment file.
type Attachment struct {
	Name string
	Path string
	Kind AttachmentKind
}

// Message is the parsed email: metadata plus saved attachments.
type Message struct {
	SenderName  string
	SenderEmail string
	Subject     string
	Date        time.Time
	Body        string
	Attachments []Attachment
}

// PDFs returns the PDF attachments in order.
func (m *Message) PDFs() []Attachment { return m.ofKind(KindPDF) }

// Images returns the directly OCR-able image attachments.
func (m *Message) Images() []Attachment { return m.ofKind(KindImage) }

func (m *Message) ofKind(k AttachmentKind) []Attachment {
	var out []Attachment
	for _, a := range m.Attachments {
		if a.Kind == k {
			out = append(out, a)
		}
	}
	return out
}

// Cleanup removes the saved attachment files. Best effort.
func (m *Message) Cleanup() {
	for _, a := range m.Attachments {
		if err := os.Remove(a.Path); err != nil && !os.IsNotExist(err) {
			slog.Warn("could not remove attachment", "path", a.Path, "err", err)
		}
	}
}

// ParseFile parses an .eml file and saves its attachments to a temp
// directory.
func ParseFile(path string) (*Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open eml: %w", err)
	}
	defer f.Close()

	msg, err := mail.ReadMessage(f)
	if err != nil {
		return nil, fmt.Errorf("parse eml %s: %w", filepath.Base(path), err)
	}

	out := &Message{Subject: decodeHeader(msg.Header.Get("Subject"))}
	if addr, err := mail.ParseAddress(msg.Header.Get("From")); err == nil {
		out.SenderName = addr.Name
		out.SenderEmail = addr.Address
	}
	if d, err := msg.Header.Date(); err == nil {
		out.Date = d
	}

	tmpDir, err := os.MkdirTemp("", "reimburse-eml-")
	if err != nil {
		return nil, fmt.Errorf("temp dir: %w", err)
	}

	contentType := msg.Header.Get("Content-Type")
	if err := walkPart(out, msg.Body, contentType, msg.Header.Get("Content-Transfer-Encoding"), "", tmpDir); err != nil {
		return nil, err
	}
	return out, nil
}

// walkPart descends through the MIME structure, collecting plain text body
// parts and saving attachments.
func walkPart(out *Message, body io.Reader, contentType, transferEncoding, disposition, tmpDir string) error {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = "text/plain"
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		mr := multipart.NewReader(body, params["boundary"])
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return fmt.Errorf("read mime part: %w", err)
			}
			err = walkPart(out, part,
				part.Header.Get("Content-Type"),
				part.Header.Get("Content-Transfer-Encoding"),
				part.Header.Get("Content-Disposition"),
				tmpDir)
			if err != nil {
				return err
			}
		}
	}

	reader := decodeBody(body, transferEncoding)
	name := partFilename(contentType, disposition)

	if name == "" && mediaType == "text/plain" {
		text, err := io.ReadAll(reader)
		if err == nil {
			out.Body += string(text)
		}
		return nil
	}
	if name == "" {
		return nil // non-text inline part with no filename, skip
	}

	dest := filepath.Join(tmpDir, filepath.Base(name))
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("save attachment %s: %w", name, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, reader); err != nil {
		return fmt.Errorf("save attachment %s: %w", name, err)
	}

	out.Attachments = append(out.Attachments, Attachment{
		Name: name,
		Path: dest,
		Kind: KindFor(name),
	})
	return nil
}

func decodeBody(r io.Reader, encoding string) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	}
	return r
}

func partFilename(contentType, disposition string) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		if name := params["name"]; name != "" {
			return name
		}
	}
	return ""
}

// KindFor classifies an attachment by file extension.
func KindFor(name string) AttachmentKind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return KindPDF
	case ".jpg", ".jpeg", ".png", ".gif", ".tif", ".tiff", ".heic":
		return KindImage
	}
	return KindOther
}

func decodeHeader(s string) string {
	dec := new(mime.WordDecoder)
	if decoded, err := dec.DecodeHeader(s); err == nil {
		return decoded
	}
	return s
}
