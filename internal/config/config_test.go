package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	yaml := `
field_mappings:
  payment_types:
    - Check
    - Debit
  budget_categories:
    - Staff Appreciation
    - Programs
ocr:
  provider: gemini
  model: gemini-2.0-flash
  substitutions:
    "Am0unt": "Amount"
google_sheets:
  spreadsheet_id: abc123
  sheet_name: Income and Expenses
gmail:
  oauth_credentials_file: credentials.json
  token_file: token.json
google_drive:
  archive_folder_id: folder123
notes_default: verify receipt
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := cfg.FieldMappings.PaymentTypes; len(got) != 2 || got[0] != "Check" {
		t.Errorf("PaymentTypes = %v", got)
	}
	if got := cfg.FieldMappings.BudgetCategories; len(got) != 2 || got[1] != "Programs" {
		t.Errorf("BudgetCategories = %v", got)
	}
	if cfg.OCR.Provider != "gemini" {
		t.Errorf("OCR.Provider = %q", cfg.OCR.Provider)
	}
	if got := cfg.OCR.Substitutions["Am0unt"]; got != "Amount" {
		t.Errorf("Substitutions[Am0unt] = %q", got)
	}
	if cfg.Sheets.SpreadsheetID != "abc123" {
		t.Errorf("SpreadsheetID = %q", cfg.Sheets.SpreadsheetID)
	}
	if cfg.Gmail.TokenFile != "token.json" {
		t.Errorf("TokenFile = %q", cfg.Gmail.TokenFile)
	}
	if cfg.Drive.ArchiveFolderID != "folder123" {
		t.Errorf("ArchiveFolderID = %q", cfg.Drive.ArchiveFolderID)
	}
	if cfg.NotesDefault != "verify receipt" {
		t.Errorf("NotesDefault = %q", cfg.NotesDefault)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

func TestDefaultPreservedWhenFileOmitsSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("notes_default: hi\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OCR.Provider != "vision" {
		t.Errorf("default OCR provider lost: %q", cfg.OCR.Provider)
	}
	if cfg.Sheets.SheetName != "Income and Expenses" {
		t.Errorf("default sheet name lost: %q", cfg.Sheets.SheetName)
	}
	if len(cfg.FieldMappings.PaymentTypes) == 0 {
		t.Error("default payment types lost")
	}
}
