package documents

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"doctrack/backend/internal/apperr"
	"doctrack/backend/internal/extract"
	"doctrack/backend/internal/models"
	"doctrack/backend/internal/storage"
	"doctrack/backend/internal/timezone"
)

// Extractor produces text for a local file. Empty text means nothing usable
// was found.
type Extractor interface {
	Extract(ctx context.Context, path, mimeType string) string
}

// Upload is one incoming file.
type Upload struct {
	Filename string
	MIMEType string
	Open     func() (io.ReadCloser, error)
}

// Committer persists the records of a batch as one unit.
type Committer interface {
	Commit(ctx context.Context, docs []*models.Document) error
}

type CommitFunc func(ctx context.Context, docs []*models.Document) error

func (f CommitFunc) Commit(ctx context.Context, docs []*models.Document) error { return f(ctx, docs) }

const (
	StatusStored  = "stored"
	StatusSkipped = "skipped"
)

// FileStatus reports what happened to one upload of a batch.
type FileStatus struct {
	OriginalName string `json:"originalName"`
	Status       string `json:"status"`
	Reason       string `json:"reason,omitempty"`
	DocumentID   string `json:"documentId,omitempty"`
}

// Batch is the outcome of one ingestion. Files is parallel to the input.
type Batch struct {
	Documents []*models.Document
	Files     []FileStatus
}

// Pipeline turns uploads into stored binaries plus searchable records.
type Pipeline struct {
	extractor Extractor
	store     storage.Storage
	workers   int
	tempDir   string
	now       func() time.Time
}

func NewPipeline(extractor Extractor, store storage.Storage, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		extractor: extractor,
		store:     store,
		workers:   workers,
		now:       timezone.Now,
	}
}

// WithClock overrides the upload timestamp source.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// WithTempDir sets where uploads are spooled for extraction.
func (p *Pipeline) WithTempDir(dir string) *Pipeline {
	p.tempDir = dir
	return p
}

// Ingest validates meta, extracts every file and commits one record per
// file that yielded text. Files without text are skipped and reported in
// Batch.Files, never as an error. Validation or commit failures leave
// nothing behind.
func (p *Pipeline) Ingest(ctx context.Context, files []Upload, meta Metadata, uploaderID primitive.ObjectID, c Committer) (*Batch, error) {
	if err := Validate(meta); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, apperr.Validation("No files uploaded", "documents")
	}
	submission, err := ParseSubmissionDate(meta.SubmissionDate)
	if err != nil {
		return nil, err
	}

	results := make([]processed, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range files {
		i := i
		g.Go(func() error {
			r, err := p.process(gctx, files[i], true)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.discard(ctx, results)
		return nil, err
	}

	batch := &Batch{Files: make([]FileStatus, len(files))}
	for i, r := range results {
		batch.Files[i] = FileStatus{OriginalName: files[i].Filename, Status: StatusSkipped, Reason: r.reason}
		if r.stored == nil {
			continue
		}
		doc := &models.Document{
			ID:             primitive.NewObjectID(),
			DocumentTitle:  meta.DocumentTitle,
			Category:       meta.Category,
			DocumentType:   meta.DocumentType,
			OriginalName:   files[i].Filename,
			StoredFilename: r.stored.Filename,
			EntryID:        meta.EntryID,
			UploadDate:     r.uploadedAt,
			SubmissionDate: submission,
			PreparedBy:     meta.PreparedBy,
			Description:    meta.Description,
			StoragePath:    r.stored.Path,
			ExtractedText:  r.text,
			UploaderID:     uploaderID,
		}
		batch.Documents = append(batch.Documents, doc)
		batch.Files[i] = FileStatus{OriginalName: files[i].Filename, Status: StatusStored, DocumentID: doc.ID.Hex()}
	}

	if len(batch.Documents) == 0 {
		return batch, nil
	}
	if err := c.Commit(ctx, batch.Documents); err != nil {
		p.discard(ctx, results)
		return nil, err
	}
	return batch, nil
}

// Replacement is a stored binary plus its extracted text.
type Replacement struct {
	Stored storage.Stored
	Text   string
}

// Replace stores a single file for an edit. Unlike Ingest, a file without
// text is still accepted.
func (p *Pipeline) Replace(ctx context.Context, u Upload) (*Replacement, error) {
	r, err := p.process(ctx, u, false)
	if err != nil {
		return nil, err
	}
	if r.stored == nil {
		return nil, apperr.Validation("Uploaded file could not be read", "file")
	}
	return &Replacement{Stored: *r.stored, Text: r.text}, nil
}

// Discard removes a stored binary, logging failures.
func (p *Pipeline) Discard(ctx context.Context, path string) {
	if err := p.store.Delete(ctx, path); err != nil {
		log.Printf("[Pipeline] Could not remove stored file %s: %v", path, err)
	}
}

type processed struct {
	stored     *storage.Stored
	text       string
	reason     string
	uploadedAt time.Time
}

// process spools u to a temp file, extracts its text and, when accepted,
// saves it to storage. Only storage failures are returned as errors.
func (p *Pipeline) process(ctx context.Context, u Upload, requireText bool) (processed, error) {
	tmp, err := p.spool(u)
	if err != nil {
		log.Printf("[Pipeline] Could not read upload %s: %v", u.Filename, err)
		return processed{reason: "file could not be read"}, nil
	}
	defer os.Remove(tmp)

	mimeType := extract.DetectMIME(tmp, u.MIMEType)
	text := p.extractor.Extract(ctx, tmp, mimeType)
	if requireText && !extract.HasText(text) {
		log.Printf("[Pipeline] No text extracted from %s (%s), skipping", u.Filename, mimeType)
		return processed{reason: "no text could be extracted"}, nil
	}

	f, err := os.Open(tmp)
	if err != nil {
		return processed{}, fmt.Errorf("reopen spooled upload: %w", err)
	}
	defer f.Close()
	stored, err := p.store.Save(ctx, u.Filename, f)
	if err != nil {
		return processed{}, apperr.Persistence("store uploaded file", err)
	}
	return processed{stored: &stored, text: text, uploadedAt: p.now()}, nil
}

func (p *Pipeline) spool(u Upload) (string, error) {
	if u.Open == nil {
		return "", fmt.Errorf("no content")
	}
	src, err := u.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	tmp, err := os.CreateTemp(p.tempDir, "upload-*"+filepath.Ext(u.Filename))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func (p *Pipeline) discard(ctx context.Context, results []processed) {
	for _, r := range results {
		if r.stored != nil {
			p.Discard(context.WithoutCancel(ctx), r.stored.Path)
		}
	}
}
