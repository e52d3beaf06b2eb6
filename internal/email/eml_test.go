package email

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeEML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "msg.eml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFilePlainText(t *testing.T) {
	eml := "From: Jane Doe <jane@example.com>\r\n" +
		"Subject: Reimbursement request\r\n" +
		"Date: Tue, 4 Mar 2025 10:00:00 -0600\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"Please see the attached form.\r\n"

	msg, err := ParseFile(writeEML(t, eml))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	defer msg.Cleanup()

	if msg.SenderName != "Jane Doe" || msg.SenderEmail != "jane@example.com" {
		t.Errorf("sender = %q <%s>", msg.SenderName, msg.SenderEmail)
	}
	if msg.Subject != "Reimbursement request" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if msg.Date.Year() != 2025 || int(msg.Date.Month()) != 3 {
		t.Errorf("date = %v", msg.Date)
	}
	if !strings.Contains(msg.Body, "attached form") {
		t.Errorf("body = %q", msg.Body)
	}
	if len(msg.Attachments) != 0 {
		t.Errorf("unexpected attachments: %v", msg.Attachments)
	}
}

func TestParseFileMultipartAttachment(t *testing.T) {
	pdfBytes := []byte("%PDF-1.4 fake content")
	encoded := base64.StdEncoding.EncodeToString(pdfBytes)

	eml := "From: jane@example.com\r\n" +
		"Subject: form\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/mixed; boundary=BOUNDARY\r\n" +
		"\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"form attached\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: application/pdf; name=\"request.pdf\"\r\n" +
		"Content-Transfer-Encoding: base64\r\n" +
		"Content-Disposition: attachment; filename=\"request.pdf\"\r\n" +
		"\r\n" +
		encoded + "\r\n" +
		"--BOUNDARY--\r\n"

	msg, err := ParseFile(writeEML(t, eml))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	defer msg.Cleanup()

	if !strings.Contains(msg.Body, "form attached") {
		t.Errorf("body = %q", msg.Body)
	}
	if len(msg.Attachments) != 1 {
		t.Fatalf("attachments = %v, want one", msg.Attachments)
	}

	att := msg.Attachments[0]
	if att.Name != "request.pdf" || att.Kind != KindPDF {
		t.Errorf("attachment = %+v", att)
	}
	data, err := os.ReadFile(att.Path)
	if err != nil {
		t.Fatalf("read saved attachment: %v", err)
	}
	if string(data) != string(pdfBytes) {
		t.Errorf("saved attachment content = %q", data)
	}
	if pdfs := msg.PDFs(); len(pdfs) != 1 {
		t.Errorf("PDFs() = %v", pdfs)
	}
	if imgs := msg.Images(); len(imgs) != 0 {
		t.Errorf("Images() = %v", imgs)
	}
}

func TestKindFor(t *testing.T) {
	tests := []struct {
		name string
		want AttachmentKind
	}{
		{"form.pdf", KindPDF},
		{"scan.JPG", KindImage},
		{"photo.heic", KindImage},
		{"notes.txt", KindOther},
	}
	for _, tt := range tests {
		if got := KindFor(tt.name); got != tt.want {
			t.Errorf("KindFor(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCleanupRemovesFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.pdf")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	msg := &Message{Attachments: []Attachment{{Name: "a.pdf", Path: path, Kind: KindPDF}}}
	msg.Cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("attachment still present after Cleanup: %v", err)
	}
}
