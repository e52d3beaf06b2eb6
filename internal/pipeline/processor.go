// Package pipeline runs a reimbursement email end to end: attachments to
// OCR text, text to a record, record through review, and the finalized
// record out to the spreadsheet and archive.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattborgard/reimburse-parser/internal/config"
	"github.com/mattborgard/reimburse-parser/internal/drive"
	"github.com/mattborgard/reimburse-parser/internal/email"
	"github.com/mattborgard/reimburse-parser/internal/extract"
	"github.com/mattborgard/reimburse-parser/internal/form"
	"github.com/mattborgard/reimburse-parser/internal/gmail"
	"github.com/mattborgard/reimburse-parser/internal/normalize"
	"github.com/mattborgard/reimburse-parser/internal/ocr"
	"github.com/mattborgard/reimburse-parser/internal/pdf"
	"github.com/mattborgard/reimburse-parser/internal/printer"
	"github.com/mattborgard/reimburse-parser/internal/review"
	"github.com/mattborgard/reimburse-parser/internal/sheets"
)

// Options tune one processor. DryRun runs the full parse and review but
// suppresses every external write.
type Options struct {
	DryRun      bool
	Print       bool
	PrinterName string
}

// Processor is safe to reuse across messages within one run. Google clients
// are built lazily at publish time so dry runs need no credentials.
type Processor struct {
	cfg      *config.Config
	provider ocr.Provider
	prompter review.Prompter
	opts     Options
}

func New(cfg *config.Config, prompter review.Prompter, opts Options) (*Processor, error) {
	provider, err := ocr.NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	return &Processor{cfg: cfg, provider: provider, prompter: prompter, opts: opts}, nil
}

// ProcessEML runs one saved .eml file through the pipeline.
func (p *Processor) ProcessEML(ctx context.Context, path string) error {
	msg, err := email.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	defer msg.Cleanup()
	return p.process(ctx, msg)
}

// ProcessMessage fetches a Gmail message by id and runs it through the
// pipeline.
func (p *Processor) ProcessMessage(ctx context.Context, id string) error {
	client, err := gmail.New(ctx, p.cfg.Gmail)
	if err != nil {
		return err
	}
	msg, err := client.Fetch(ctx, id)
	if err != nil {
		return err
	}
	defer msg.Cleanup()
	return p.process(ctx, msg)
}

// ProcessFolder runs every .eml file in dir, continuing past per-file
// failures, and reports a summary. It errors only when nothing succeeded.
func (p *Processor) ProcessFolder(ctx context.Context, dir string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.eml"))
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no .eml files in %s", dir)
	}
	sort.Strings(paths)

	var ok, failed int
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.prompter.Say("--- %s ---", filepath.Base(path))
		if err := p.ProcessEML(ctx, path); err != nil {
			slog.Error("message failed", "file", path, "err", err)
			failed++
			continue
		}
		ok++
	}
	p.prompter.Say("processed %d of %d files (%d failed)", ok, len(paths), failed)
	if ok == 0 {
		return fmt.Errorf("all %d files failed", failed)
	}
	return nil
}

func (p *Processor) process(ctx context.Context, msg *email.Message) error {
	images, cleanup, err := p.collectImages(msg)
	if err != nil {
		return err
	}
	defer cleanup()
	if len(images) == 0 {
		return fmt.Errorf("message has no PDF or image attachments")
	}

	pages, err := p.provider.Recognize(ctx, images)
	if err != nil {
		return err
	}
	lines, err := normalize.Normalize(pages, p.cfg.OCR.Substitutions)
	if err != nil {
		return err
	}

	rec := extract.Extract(lines, p.cfg)
	p.seedFromSender(rec, msg)

	sess, err := review.NewSession(rec, strings.Join(lines, "\n"), p.cfg, p.prompter)
	if err != nil {
		return err
	}
	outcome, err := sess.Run(ctx)
	if err != nil {
		return err
	}
	if !outcome.Finalized {
		slog.Info("review aborted, nothing published")
		return nil
	}
	return p.publish(ctx, outcome.Record, msg)
}

// collectImages renders PDF attachments to page images and gathers image
// attachments as-is. The returned cleanup removes only the rendered pages;
// attachments belong to the message.
func (p *Processor) collectImages(msg *email.Message) ([]string, func(), error) {
	var images, rendered []string
	cleanup := func() { pdf.Cleanup(rendered) }

	for _, att := range msg.PDFs() {
		pages, err := pdf.ToImages(att.Path)
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("render %s: %w", att.Name, err)
		}
		rendered = append(rendered, pages...)
		images = append(images, pages...)
	}
	for _, att := range msg.Images() {
		images = append(images, att.Path)
	}
	return images, cleanup, nil
}

// seedFromSender fills Requestor and Email from message metadata when the
// form text yielded nothing. Metadata is a guess about who filled the form,
// so these land as inferred for the reviewer to confirm.
func (p *Processor) seedFromSender(rec form.Record, msg *email.Message) {
	if rec[form.Email].IsMissing() && msg.SenderEmail != "" {
		rec.Set(form.Email, strings.ToLower(msg.SenderEmail), form.Inferred, form.NoSourceLine)
	}
	if rec[form.Requestor].IsMissing() && msg.SenderName != "" {
		rec.Set(form.Requestor, msg.SenderName, form.Inferred, form.NoSourceLine)
	}
}

func (p *Processor) publish(ctx context.Context, rec form.Record, msg *email.Message) error {
	if p.opts.DryRun {
		p.prompter.Say("dry run: would append row for %q (%s), archive %d attachment(s) under %s",
			rec[form.Requestor].Value, rec[form.Amount].Value,
			len(msg.Attachments), form.ArchiveFolder(rec))
		return nil
	}

	prompt := fmt.Sprintf("Append row for %q (%s) to %s?",
		rec[form.Requestor].Value, rec[form.Amount].Value, p.cfg.Sheets.SheetName)
	if !p.prompter.Confirm(prompt, true) {
		slog.Info("spreadsheet write declined, record discarded")
		return nil
	}

	sheet, err := sheets.New(ctx, p.cfg.Sheets, p.cfg.OCR.CredentialsFile)
	if err != nil {
		return err
	}
	id, err := sheet.NextID(ctx)
	if err != nil {
		return err
	}
	row := form.BuildSheetRow(rec, msg.Date, id)
	if err := sheet.Append(ctx, row); err != nil {
		return err
	}
	p.prompter.Say("appended row %d to %s", id, p.cfg.Sheets.SheetName)

	if p.cfg.Drive.ArchiveFolderID != "" {
		archive, err := drive.New(ctx, p.cfg.Drive, p.cfg.OCR.CredentialsFile)
		if err != nil {
			return err
		}
		paths := attachmentPaths(msg)
		if err := archive.Archive(ctx, form.ArchiveFolder(rec), id, rec[form.Requestor].Value, paths); err != nil {
			return err
		}
		p.prompter.Say("archived %d file(s) under %s", len(paths), form.ArchiveFolder(rec))
	}

	if p.opts.Print {
		if err := printer.Print(ctx, p.opts.PrinterName, attachmentPaths(msg)); err != nil {
			// The row is already written. Printing failure should not
			// undo that, the treasurer can reprint.
			slog.Error("printing failed", "err", err)
		}
	}
	return nil
}

func attachmentPaths(msg *email.Message) []string {
	var paths []string
	for _, a := range msg.Attachments {
		if _, err := os.Stat(a.Path); err == nil {
			paths = append(paths, a.Path)
		}
	}
	return paths
}
