package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FieldMappings enumerates the allowed values for the enum-constrained
// fields. Order matters: review menus present the lists as configured.
type FieldMappings struct {
	PaymentTypes     []string `yaml:"payment_types"`
	BudgetCategories []string `yaml:"budget_categories"`
	BudgetItems      []string `yaml:"budget_items"`
}

// OCRConfig selects the OCR provider and carries the misread-correction
// table. The table is data, not logic: pairs of literal from/to strings
// applied during normalization.
type OCRConfig struct {
	Provider        string            `yaml:"provider"` // "vision" or "gemini"
	Model           string            `yaml:"model"`    // gemini model name
	CredentialsFile string            `yaml:"credentials_file"`
	Substitutions   map[string]string `yaml:"substitutions"`
}

// SheetsConfig locates the spreadsheet rows are appended to.
type SheetsConfig struct {
	SpreadsheetID string `yaml:"spreadsheet_id"`
	SheetName     string `yaml:"sheet_name"`
}

// GmailConfig holds the OAuth client file used for message fetching.
type GmailConfig struct {
	OAuthCredentialsFile string `yaml:"oauth_credentials_file"`
	TokenFile            string `yaml:"token_file"`
}

// DriveConfig locates the archive folder attachments are filed under.
type DriveConfig struct {
	ArchiveFolderID string `yaml:"archive_folder_id"`
}

// Config is the process-wide configuration, loaded once and passed by value
// into the components that need it. Nothing reads it from ambient state.
type Config struct {
	FieldMappings FieldMappings `yaml:"field_mappings"`
	OCR           OCRConfig     `yaml:"ocr"`
	Sheets        SheetsConfig  `yaml:"google_sheets"`
	Gmail         GmailConfig   `yaml:"gmail"`
	Drive         DriveConfig   `yaml:"google_drive"`

	// NotesDefault seeds the Notes field of every extracted record. Empty
	// by default; set it to a reviewer cue if you want one.
	NotesDefault string `yaml:"notes_default"`
}

// Load reads and parses the YAML config file, then applies environment
// overrides for secrets.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyEnv()
	return cfg, nil
}

// Default returns a config usable for dry runs and tests: the stock payment
// types from the paper form, no Google wiring.
func Default() *Config {
	return &Config{
		FieldMappings: FieldMappings{
			PaymentTypes: []string{"Check", "Debit", "Amazon"},
		},
		OCR: OCRConfig{
			Provider: "vision",
			Model:    "gemini-2.0-flash",
		},
		Sheets: SheetsConfig{
			SheetName: "Income and Expenses",
		},
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" && c.OCR.CredentialsFile == "" {
		c.OCR.CredentialsFile = v
	}
	if v := os.Getenv("OCR_PROVIDER"); v != "" {
		c.OCR.Provider = v
	}
}
