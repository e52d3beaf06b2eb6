// Package gmail lists and fetches reimbursement emails through the Gmail
// API. OAuth token acquisition is out of scope: the client reads an already
// issued token from disk and tells the user how to supply one if missing.
package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/mattborgard/reimburse-parser/internal/config"
	"github.com/mattborgard/reimburse-parser/internal/email"
)

// Summary is one listed message, enough to pick it out for processing.
type Summary struct {
	ID          string
	Subject     string
	SenderName  string
	SenderEmail string
	Date        time.Time
}

// Client wraps the Gmail API for the current user.
type Client struct {
	svc *gmail.Service
}

// New builds an authenticated client from the configured OAuth client file
// and stored token.
func New(ctx context.Context, cfg config.GmailConfig) (*Client, error) {
	if cfg.OAuthCredentialsFile == "" {
		return nil, fmt.Errorf("gmail.oauth_credentials_file is not configured")
	}
	credJSON, err := os.ReadFile(cfg.OAuthCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read oauth credentials: %w", err)
	}
	oauthCfg, err := google.ConfigFromJSON(credJSON, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse oauth credentials: %w", err)
	}

	tokenFile := cfg.TokenFile
	if tokenFile == "" {
		tokenFile = "token.json"
	}
	token, err := loadToken(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("no stored Gmail token at %s; run an OAuth flow once and save the token there: %w", tokenFile, err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(oauthCfg.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return &Client{svc: svc}, nil
}

func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return token, nil
}

// List returns message summaries matching the Gmail search query. A failure
// on one message is logged and skipped, the rest of the listing continues.
func (c *Client) List(ctx context.Context, query string, max int64) ([]Summary, error) {
	resp, err := c.svc.Users.Messages.List("me").Q(query).MaxResults(max).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	var out []Summary
	for _, m := range resp.Messages {
		msg, err := c.svc.Users.Messages.Get("me", m.Id).Format("metadata").
			MetadataHeaders("From", "Subject", "Date").Context(ctx).Do()
		if err != nil {
			slog.Warn("skipping message", "id", m.Id, "err", err)
			continue
		}
		out = append(out, summarize(msg))
	}
	return out, nil
}

func summarize(msg *gmail.Message) Summary {
	s := Summary{ID: msg.Id}
	for _, h := range msg.Payload.Headers {
		switch h.Name {
		case "Subject":
			s.Subject = h.Value
		case "From":
			if addr, err := mail.ParseAddress(h.Value); err == nil {
				s.SenderName = addr.Name
				s.SenderEmail = addr.Address
			} else {
				s.SenderName = h.Value
			}
		case "Date":
			if d, err := mail.ParseDate(h.Value); err == nil {
				s.Date = d
			}
		}
	}
	return s
}

// Fetch downloads a message and its attachments, returning the same Message
// shape the .eml parser produces so the pipeline treats both sources alike.
func (c *Client) Fetch(ctx context.Context, id string) (*email.Message, error) {
	msg, err := c.svc.Users.Messages.Get("me", id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch message %s: %w", id, err)
	}

	out := &email.Message{}
	for _, h := range msg.Payload.Headers {
		switch h.Name {
		case "Subject":
			out.Subject = h.Value
		case "From":
			if addr, err := mail.ParseAddress(h.Value); err == nil {
				out.SenderName = addr.Name
				out.SenderEmail = addr.Address
			}
		case "Date":
			if d, err := mail.ParseDate(h.Value); err == nil {
				out.Date = d
			}
		}
	}

	tmpDir, err := os.MkdirTemp("", "reimburse-gmail-")
	if err != nil {
		return nil, fmt.Errorf("temp dir: %w", err)
	}
	if err := c.collectParts(ctx, msg.Id, msg.Payload, out, tmpDir); err != nil {
		return nil, err
	}
	slog.Info("message fetched", "id", id, "attachments", len(out.Attachments))
	return out, nil
}

func (c *Client) collectParts(ctx context.Context, msgID string, part *gmail.MessagePart, out *email.Message, tmpDir string) error {
	if part == nil {
		return nil
	}
	if part.Filename != "" && part.Body != nil {
		data, err := c.partData(ctx, msgID, part.Body)
		if err != nil {
			return fmt.Errorf("download attachment %s: %w", part.Filename, err)
		}
		dest := filepath.Join(tmpDir, filepath.Base(part.Filename))
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return fmt.Errorf("save attachment %s: %w", part.Filename, err)
		}
		out.Attachments = append(out.Attachments, email.Attachment{
			Name: part.Filename,
			Path: dest,
			Kind: email.KindFor(part.Filename),
		})
	} else if strings.HasPrefix(part.MimeType, "text/plain") && part.Body != nil && part.Body.Data != "" {
		if data, err := base64.URLEncoding.DecodeString(part.Body.Data); err == nil {
			out.Body += string(data)
		}
	}
	for _, child := range part.Parts {
		if err := c.collectParts(ctx, msgID, child, out, tmpDir); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) partData(ctx context.Context, msgID string, body *gmail.MessagePartBody) ([]byte, error) {
	if body.Data != "" {
		return base64.URLEncoding.DecodeString(body.Data)
	}
	att, err := c.svc.Users.Messages.Attachments.Get("me", msgID, body.AttachmentId).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return base64.URLEncoding.DecodeString(att.Data)
}
