package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"doctrack/backend/internal/apperr"
)

// Drive keeps files in a Google Drive folder. Path and Filename are both the
// Drive file id.
type Drive struct {
	srv      *drive.Service
	folderID string
}

// NewDrive builds a Drive client from service-account JSON. Private keys
// pasted into env vars often carry literal "\n" sequences, they are restored.
func NewDrive(ctx context.Context, credentialsJSON, folderID string) (*Drive, error) {
	log.Println("[DriveStorage] Initializing...")
	if credentialsJSON == "" {
		return nil, fmt.Errorf("drive credentials not set")
	}

	var credentials map[string]interface{}
	if err := json.Unmarshal([]byte(credentialsJSON), &credentials); err != nil {
		return nil, fmt.Errorf("unable to parse drive credentials: %w", err)
	}
	if key, ok := credentials["private_key"].(string); ok {
		credentials["private_key"] = strings.ReplaceAll(key, "\\n", "\n")
	}
	rectified, err := json.Marshal(credentials)
	if err != nil {
		return nil, fmt.Errorf("unable to rectify drive credentials: %w", err)
	}

	config, err := google.JWTConfigFromJSON(rectified, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("unable to build drive config: %w", err)
	}
	srv, err := drive.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Drive client: %w", err)
	}

	log.Println("[DriveStorage] Google Drive client ready.")
	return &Drive{srv: srv, folderID: folderID}, nil
}

func (d *Drive) Save(ctx context.Context, originalName string, content io.Reader) (Stored, error) {
	meta := &drive.File{Name: StoredName(originalName, time.Now())}
	if d.folderID != "" {
		meta.Parents = []string{d.folderID}
	}
	file, err := d.srv.Files.Create(meta).Media(content).Context(ctx).Do()
	if err != nil {
		return Stored{}, fmt.Errorf("could not create drive file: %w", err)
	}
	log.Printf("[DriveStorage] Uploaded %s as %s", originalName, file.Id)
	return Stored{Path: file.Id, Filename: file.Id}, nil
}

func (d *Drive) Open(ctx context.Context, fileID string) (io.ReadCloser, error) {
	resp, err := d.srv.Files.Get(fileID).Context(ctx).Download()
	if isNotFound(err) {
		return nil, apperr.NotFound("File")
	}
	if err != nil {
		return nil, fmt.Errorf("download drive file %s: %w", fileID, err)
	}
	return resp.Body, nil
}

func (d *Drive) Delete(ctx context.Context, fileID string) error {
	if fileID == "" {
		return nil
	}
	err := d.srv.Files.Delete(fileID).Context(ctx).Do()
	if err == nil || isNotFound(err) {
		return nil
	}
	log.Printf("[DriveStorage] Failed to delete file %s: %v", fileID, err)
	return err
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}
