// Package drive files a finalized request's documents under the archive
// folder, one subfolder per month.
package drive

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/mattborgard/reimburse-parser/internal/config"
)

const folderMimeType = "application/vnd.google-apps.folder"

// Client uploads into one configured archive folder.
type Client struct {
	svc           *drive.Service
	archiveFolder string
}

func New(ctx context.Context, cfg config.DriveConfig, credentialsFile string) (*Client, error) {
	if cfg.ArchiveFolderID == "" {
		return nil, fmt.Errorf("drive.archive_folder_id is not configured")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Client{svc: svc, archiveFolder: cfg.ArchiveFolderID}, nil
}

// ensureFolder returns the id of the named subfolder of the archive folder,
// creating it if absent. Folder names come in already uppercased month names.
func (c *Client) ensureFolder(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf("name = '%s' and '%s' in parents and mimeType = '%s' and trashed = false",
		strings.ReplaceAll(name, "'", "\\'"), c.archiveFolder, folderMimeType)
	list, err := c.svc.Files.List().Q(query).Fields("files(id)").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("search folder %s: %w", name, err)
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}

	created, err := c.svc.Files.Create(&drive.File{
		Name:     name,
		MimeType: folderMimeType,
		Parents:  []string{c.archiveFolder},
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create folder %s: %w", name, err)
	}
	slog.Info("archive folder created", "name", name)
	return created.Id, nil
}

// Archive uploads each local file into the month folder. Uploads are named
// "<id>_<requestor>_<original name>" so a month's files sort by request.
func (c *Client) Archive(ctx context.Context, folder string, id int64, requestor string, paths []string) error {
	folderID, err := c.ensureFolder(ctx, folder)
	if err != nil {
		return err
	}
	prefix := fmt.Sprintf("%d_%s_", id, sanitize(requestor))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		name := prefix + filepath.Base(path)
		_, err = c.svc.Files.Create(&drive.File{
			Name:    name,
			Parents: []string{folderID},
		}).Media(f).Context(ctx).Do()
		f.Close()
		if err != nil {
			return fmt.Errorf("upload %s: %w", name, err)
		}
		slog.Info("file archived", "folder", folder, "name", name)
	}
	return nil
}

// sanitize makes a requestor name safe in a file name.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "_")
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, s)
}
