// Package drivelog appends one line per posted item to a text log file
// on Google Drive, so the posting record survives the ephemeral
// scheduler runner.
package drivelog

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

type Journal struct {
	svc      *drive.Service
	folderID string
	fileName string
}

// New builds a Drive client from a service-account credentials file.
func New(ctx context.Context, credentialsPath, folderID, fileName string) (*Journal, error) {
	creds, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read Drive credentials: %w", err)
	}

	svc, err := drive.NewService(ctx,
		option.WithCredentialsJSON(creds),
		option.WithScopes(drive.DriveFileScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Journal{svc: svc, folderID: folderID, fileName: fileName}, nil
}

// Append adds one line to the log file, creating it on first use.
// Drive has no append call, so the file is downloaded, extended and
// re-uploaded; the log stays small because it only grows by a few
// lines per hour.
func (j *Journal) Append(ctx context.Context, line string) error {
	fileID, err := j.findLogFile(ctx)
	if err != nil {
		return err
	}

	if fileID == "" {
		meta := &drive.File{
			Name:     j.fileName,
			Parents:  []string{j.folderID},
			MimeType: "text/plain",
		}
		_, err := j.svc.Files.Create(meta).
			Media(strings.NewReader(line + "\n")).
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		return nil
	}

	existing, err := j.download(ctx, fileID)
	if err != nil {
		return err
	}

	content := existing
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += line + "\n"

	_, err = j.svc.Files.Update(fileID, &drive.File{}).
		Media(strings.NewReader(content)).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update log file: %w", err)
	}
	return nil
}

func (j *Journal) findLogFile(ctx context.Context) (string, error) {
	query := fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false",
		j.fileName, j.folderID)

	list, err := j.svc.Files.List().
		Q(query).
		Fields("files(id)").
		PageSize(1).
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to look up log file: %w", err)
	}

	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

func (j *Journal) download(ctx context.Context, fileID string) (string, error) {
	resp, err := j.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("failed to download log file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read log file body: %w", err)
	}
	return string(data), nil
}

// FormatLine renders one posted item as a tab-separated log record:
// timestamp, title, link, one-line commentary.
func FormatLine(ts time.Time, title, link, commentary string) string {
	fields := []string{
		ts.Format(time.RFC3339),
		flatten(title),
		flatten(link),
		flatten(commentary),
	}
	return strings.Join(fields, "\t")
}

// flatten folds a field onto a single line so records stay one-per-line.
func flatten(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.Join(strings.Fields(s), " ")
}
