package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"doctrack/backend/internal/apperr"
	"doctrack/backend/internal/documents"
	"doctrack/backend/internal/models"
	"doctrack/backend/internal/timezone"
)

// ReminderWindow is how far ahead upcoming reminders are listed.
const ReminderWindow = 10 * 24 * time.Hour

type ReminderService struct {
	reminders ReminderRepository
	docs      DocumentRepository
	now       func() time.Time
}

func NewReminderService(reminders ReminderRepository, docs DocumentRepository) *ReminderService {
	return &ReminderService{reminders: reminders, docs: docs, now: timezone.Now}
}

// WithClock overrides the clock used for the upcoming window.
func (s *ReminderService) WithClock(now func() time.Time) *ReminderService {
	s.now = now
	return s
}

type NewReminder struct {
	DocumentID     string `json:"documentId"`
	DocumentTitle  string `json:"documentTitle"`
	SubmissionDate string `json:"submissionDate"`
}

func (s *ReminderService) Create(ctx context.Context, in NewReminder) (*models.Reminder, error) {
	var missing []string
	if strings.TrimSpace(in.DocumentID) == "" {
		missing = append(missing, "documentId")
	}
	if strings.TrimSpace(in.DocumentTitle) == "" {
		missing = append(missing, "documentTitle")
	}
	if strings.TrimSpace(in.SubmissionDate) == "" {
		missing = append(missing, "submissionDate")
	}
	if len(missing) > 0 {
		return nil, apperr.Validation("Missing required fields: "+strings.Join(missing, ", "), missing...)
	}
	docID, err := parseID(in.DocumentID, "document")
	if err != nil {
		return nil, err
	}
	when, err := documents.ParseSubmissionDate(in.SubmissionDate)
	if err != nil {
		return nil, err
	}

	r := &models.Reminder{
		ID:             primitive.NewObjectID(),
		DocumentID:     docID,
		DocumentTitle:  in.DocumentTitle,
		SubmissionDate: when,
		CreatedAt:      s.now(),
	}
	if err := s.reminders.InsertMany(ctx, []*models.Reminder{r}); err != nil {
		return nil, asPersistence("create reminder", err)
	}
	return r, nil
}

// Upcoming lists open reminders due between now and the end of the window.
func (s *ReminderService) Upcoming(ctx context.Context) ([]models.Reminder, error) {
	now := s.now()
	out, err := s.reminders.Upcoming(ctx, now, now.Add(ReminderWindow))
	if err != nil {
		return nil, asPersistence("list reminders", err)
	}
	if out == nil {
		out = make([]models.Reminder, 0)
	}
	return out, nil
}

func (s *ReminderService) MarkComplete(ctx context.Context, id string) (*models.Reminder, error) {
	oid, err := parseID(id, "reminder")
	if err != nil {
		return nil, err
	}
	r, err := s.reminders.MarkComplete(ctx, oid)
	if err != nil {
		return nil, asPersistence("complete reminder", err)
	}
	return r, nil
}

// ReminderUpdate is a request to re-sync the reminders of one document.
type ReminderUpdate struct {
	DocumentTitle  string `json:"documentTitle"`
	Category       string `json:"category"`
	DocumentType   string `json:"documentType"`
	PreparedBy     string `json:"preparedBy"`
	SubmissionDate string `json:"submissionDate"`
	Description    string `json:"description"`
}

type SyncResult struct {
	DocumentID   string              `json:"documentId"`
	MatchedCount int64               `json:"matchedCount"`
	UpdatedCount int64               `json:"updatedCount"`
	Updates      models.ReminderSync `json:"updates"`
}

// SyncForDocument overwrites the mirrored fields of every reminder of the
// document. Fields left empty in the request are taken from the document
// itself so a partial request cannot blank them.
func (s *ReminderService) SyncForDocument(ctx context.Context, documentID string, in ReminderUpdate) (*SyncResult, error) {
	oid, err := parseID(documentID, "document")
	if err != nil {
		return nil, err
	}
	doc, err := s.docs.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	sync := models.SyncFrom(doc)
	if in.DocumentTitle != "" {
		sync.DocumentTitle = in.DocumentTitle
	}
	if in.Category != "" {
		sync.Category = in.Category
	}
	if in.DocumentType != "" {
		sync.DocumentType = in.DocumentType
	}
	if in.PreparedBy != "" {
		sync.PreparedBy = in.PreparedBy
	}
	if in.Description != "" {
		sync.Description = in.Description
	}
	if in.SubmissionDate != "" {
		when, err := documents.ParseSubmissionDate(in.SubmissionDate)
		if err != nil {
			return nil, err
		}
		sync.SubmissionDate = when
	}

	matched, modified, err := s.reminders.SyncByDocument(ctx, oid, sync)
	if err != nil {
		return nil, asPersistence("update reminders", err)
	}
	if matched == 0 {
		return nil, apperr.NotFound("Reminders for this document")
	}
	return &SyncResult{DocumentID: documentID, MatchedCount: matched, UpdatedCount: modified, Updates: sync}, nil
}

func (s *ReminderService) DeleteForDocument(ctx context.Context, documentID string) (int64, error) {
	oid, err := parseID(documentID, "document")
	if err != nil {
		return 0, err
	}
	n, err := s.reminders.DeleteByDocument(ctx, oid)
	if err != nil {
		return 0, asPersistence("delete reminders", err)
	}
	if n == 0 {
		return 0, apperr.NotFound("Reminders for this document")
	}
	return n, nil
}
