package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"doctrack/backend/internal/apperr"
	"doctrack/backend/internal/documents"
	"doctrack/backend/internal/models"
	"doctrack/backend/internal/storage"
	"doctrack/backend/internal/timezone"
)

// DocumentService coordinates document records, their stored binaries and
// their reminders.
type DocumentService struct {
	docs      DocumentRepository
	reminders ReminderRepository
	tx        Transactor
	pipeline  *documents.Pipeline
	store     storage.Storage
}

func NewDocumentService(docs DocumentRepository, reminders ReminderRepository, tx Transactor, pipeline *documents.Pipeline, store storage.Storage) *DocumentService {
	return &DocumentService{docs: docs, reminders: reminders, tx: tx, pipeline: pipeline, store: store}
}

// UploadResult distinguishes how many files arrived from how many were kept.
type UploadResult struct {
	Message   string                 `json:"message"`
	Documents []*models.Document     `json:"pageFilesMetadata"`
	Files     []documents.FileStatus `json:"files"`
	Received  int                    `json:"received"`
	Stored    int                    `json:"stored"`
}

// Upload ingests a batch. Each kept document gets a reminder, written in the
// same transaction as the documents.
func (s *DocumentService) Upload(ctx context.Context, uploaderID primitive.ObjectID, files []documents.Upload, meta documents.Metadata) (*UploadResult, error) {
	batch, err := s.pipeline.Ingest(ctx, files, meta, uploaderID, documents.CommitFunc(s.commit))
	if err != nil {
		return nil, err
	}
	res := &UploadResult{
		Documents: batch.Documents,
		Files:     batch.Files,
		Received:  len(files),
		Stored:    len(batch.Documents),
	}
	if res.Documents == nil {
		res.Documents = make([]*models.Document, 0)
	}
	switch {
	case res.Stored == 0:
		res.Message = "No text could be extracted from the uploaded files; nothing was stored"
	case res.Stored < res.Received:
		res.Message = fmt.Sprintf("%d of %d files uploaded and processed; the rest had no extractable text", res.Stored, res.Received)
	default:
		res.Message = "Files uploaded and processed successfully"
	}
	log.Printf("[DocumentService] Entry %s: stored %d of %d files", meta.EntryID, res.Stored, res.Received)
	return res, nil
}

func (s *DocumentService) commit(ctx context.Context, docs []*models.Document) error {
	reminders := make([]*models.Reminder, 0, len(docs))
	for _, d := range docs {
		reminders = append(reminders, newReminder(d))
	}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.docs.InsertMany(ctx, docs); err != nil {
			return err
		}
		return s.reminders.InsertMany(ctx, reminders)
	})
	if err == nil {
		return nil
	}

	// Without a transaction the documents may already be written.
	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	if derr := s.docs.DeleteMany(context.WithoutCancel(ctx), ids); derr != nil {
		log.Printf("[DocumentService] Compensating delete failed for %d documents: %v", len(ids), derr)
	}
	return asPersistence("save uploaded documents", err)
}

func newReminder(d *models.Document) *models.Reminder {
	return &models.Reminder{
		ID:             primitive.NewObjectID(),
		DocumentID:     d.ID,
		DocumentTitle:  d.DocumentTitle,
		Category:       d.Category,
		DocumentType:   d.DocumentType,
		PreparedBy:     d.PreparedBy,
		Description:    d.Description,
		SubmissionDate: d.SubmissionDate,
		CreatedAt:      timezone.Now(),
	}
}

func (s *DocumentService) Search(ctx context.Context, params documents.SearchParams) (*documents.Page, error) {
	q, err := documents.BuildQuery(params)
	if err != nil {
		return nil, err
	}
	items, total, err := s.docs.Search(ctx, q)
	if err != nil {
		return nil, asPersistence("search documents", err)
	}
	page := documents.NewPage(items, total, q)
	return &page, nil
}

func (s *DocumentService) Get(ctx context.Context, id string) (*models.Document, error) {
	oid, err := parseID(id, "document")
	if err != nil {
		return nil, err
	}
	return s.docs.FindByID(ctx, oid)
}

// OpenFile returns the record and a reader over its stored binary.
func (s *DocumentService) OpenFile(ctx context.Context, id string) (*models.Document, io.ReadCloser, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Open(ctx, doc.StoredFilename)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, nil, apperr.NotFound("File on server")
		}
		return nil, nil, err
	}
	return doc, rc, nil
}

// OpenStored streams a stored binary by its stored filename.
func (s *DocumentService) OpenStored(ctx context.Context, filename string) (io.ReadCloser, error) {
	return s.store.Open(ctx, filename)
}

// Changes is an edit request; empty fields are left untouched.
type Changes struct {
	DocumentTitle  string `form:"documentTitle" json:"documentTitle"`
	Category       string `form:"category" json:"category"`
	DocumentType   string `form:"documentType" json:"documentType"`
	PreparedBy     string `form:"preparedBy" json:"preparedBy"`
	SubmissionDate string `form:"submissionDate" json:"submissionDate"`
	Description    string `form:"description" json:"description"`
}

type UpdateResult struct {
	Document         *models.Document `json:"document"`
	RemindersMatched int64            `json:"remindersMatched"`
	RemindersUpdated int64            `json:"remindersUpdated"`
}

// Update applies changes and an optional replacement file, then mirrors the
// new metadata onto every reminder of the document.
func (s *DocumentService) Update(ctx context.Context, id string, ch Changes, file *documents.Upload) (*UpdateResult, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	original := *doc

	category, docType := doc.Category, doc.DocumentType
	if ch.Category != "" {
		category = ch.Category
	}
	if ch.DocumentType != "" {
		docType = ch.DocumentType
	}
	if ch.Category != "" || ch.DocumentType != "" {
		if err := documents.ValidatePair(category, docType); err != nil {
			return nil, err
		}
	}
	if ch.SubmissionDate != "" {
		when, err := documents.ParseSubmissionDate(ch.SubmissionDate)
		if err != nil {
			return nil, err
		}
		doc.SubmissionDate = when
	}
	doc.Category, doc.DocumentType = category, docType
	if ch.DocumentTitle != "" {
		doc.DocumentTitle = ch.DocumentTitle
	}
	if ch.PreparedBy != "" {
		doc.PreparedBy = ch.PreparedBy
	}
	if ch.Description != "" {
		doc.Description = ch.Description
	}

	oldPath := ""
	var replacement *documents.Replacement
	if file != nil {
		replacement, err = s.pipeline.Replace(ctx, *file)
		if err != nil {
			return nil, err
		}
		oldPath = doc.StoragePath
		doc.OriginalName = file.Filename
		doc.StoredFilename = replacement.Stored.Filename
		doc.StoragePath = replacement.Stored.Path
		doc.ExtractedText = replacement.Text
	}

	res := &UpdateResult{Document: doc}
	replaced := false
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.docs.Replace(ctx, doc); err != nil {
			return err
		}
		replaced = true
		matched, modified, err := s.reminders.SyncByDocument(ctx, doc.ID, models.SyncFrom(doc))
		if err != nil {
			return err
		}
		res.RemindersMatched, res.RemindersUpdated = matched, modified
		return nil
	})
	if err != nil {
		// Without a transaction the replace may already be durable, so the
		// record is put back before the new binary is dropped.
		if replaced {
			if rerr := s.docs.Replace(context.WithoutCancel(ctx), &original); rerr != nil {
				log.Printf("[DocumentService] Could not restore document %s after failed update: %v", doc.ID.Hex(), rerr)
				if oldPath != "" {
					s.pipeline.Discard(ctx, oldPath)
				}
				return nil, asPersistence("update document", err)
			}
		}
		if replacement != nil {
			s.pipeline.Discard(ctx, replacement.Stored.Path)
		}
		return nil, asPersistence("update document", err)
	}
	if oldPath != "" {
		s.pipeline.Discard(ctx, oldPath)
	}
	return res, nil
}

type DeleteResult struct {
	DocumentID       string `json:"documentId"`
	RemindersDeleted int64  `json:"remindersDeleted"`
}

// Delete removes the record, then its stored binary and reminders best
// effort. Failing to remove either of those does not fail the delete.
func (s *DocumentService) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.docs.Delete(ctx, doc.ID); err != nil {
		return nil, asPersistence("delete document", err)
	}
	s.pipeline.Discard(ctx, doc.StoragePath)

	res := &DeleteResult{DocumentID: doc.ID.Hex()}
	n, err := s.reminders.DeleteByDocument(ctx, doc.ID)
	if err != nil {
		log.Printf("[DocumentService] Document %s deleted but its reminders were not: %v", res.DocumentID, err)
		return res, nil
	}
	res.RemindersDeleted = n
	return res, nil
}

func (s *DocumentService) ByCategory(ctx context.Context) (map[string][]models.DocumentSummary, error) {
	grouped, err := s.docs.GroupByCategory(ctx)
	if err != nil {
		return nil, asPersistence("group documents", err)
	}
	return grouped, nil
}

// RecentUpload is the dashboard view of a recent upload.
type RecentUpload struct {
	DocumentTitle string `json:"documentTitle"`
	Category      string `json:"category"`
	UploadDate    string `json:"uploadDate"`
	PreparedBy    string `json:"preparedBy"`
}

func (s *DocumentService) Recent(ctx context.Context, limit int) ([]RecentUpload, error) {
	if limit < 1 {
		limit = documents.DefaultPageSize
	}
	if limit > documents.MaxPageSize {
		limit = documents.MaxPageSize
	}
	docs, err := s.docs.Recent(ctx, int64(limit))
	if err != nil {
		return nil, asPersistence("list recent uploads", err)
	}
	out := make([]RecentUpload, 0, len(docs))
	for _, d := range docs {
		out = append(out, RecentUpload{
			DocumentTitle: d.DocumentTitle,
			Category:      d.Category,
			UploadDate:    timezone.Format(d.UploadDate),
			PreparedBy:    d.PreparedBy,
		})
	}
	return out, nil
}

// NextEntryID returns the highest numeric entry id plus one, zero padded
// to three digits.
func (s *DocumentService) NextEntryID(ctx context.Context) (string, error) {
	last, err := s.docs.LatestEntryID(ctx)
	if err != nil {
		return "", asPersistence("generate entry id", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(last))
	if err != nil {
		n = 0
	}
	return fmt.Sprintf("%03d", n+1), nil
}

func (s *DocumentService) All(ctx context.Context) ([]models.Document, error) {
	docs, err := s.docs.All(ctx)
	if err != nil {
		return nil, asPersistence("list documents", err)
	}
	return docs, nil
}
