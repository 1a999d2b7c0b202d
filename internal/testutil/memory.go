// Package testutil provides in-memory collaborators for service and handler
// tests.
package testutil

import (
	"bytes"
	"context"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"doctrack/backend/internal/apperr"
	"doctrack/backend/internal/documents"
	"doctrack/backend/internal/models"
	"doctrack/backend/internal/storage"
)

type Documents struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.Document

	FailInsert error
	FailDelete error
}

func NewDocuments() *Documents {
	return &Documents{byID: map[primitive.ObjectID]models.Document{}}
}

func (r *Documents) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func (r *Documents) Put(docs ...models.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range docs {
		if d.ID.IsZero() {
			d.ID = primitive.NewObjectID()
		}
		r.byID[d.ID] = d
	}
}

func (r *Documents) InsertMany(_ context.Context, docs []*models.Document) error {
	if r.FailInsert != nil {
		return r.FailInsert
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range docs {
		r.byID[d.ID] = *d
	}
	return nil
}

func (r *Documents) FindByID(_ context.Context, id primitive.ObjectID) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("Document")
	}
	return &d, nil
}

func (r *Documents) Replace(_ context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[doc.ID]; !ok {
		return apperr.NotFound("Document")
	}
	r.byID[doc.ID] = *doc
	return nil
}

func (r *Documents) Delete(_ context.Context, id primitive.ObjectID) error {
	if r.FailDelete != nil {
		return r.FailDelete
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("Document")
	}
	delete(r.byID, id)
	return nil
}

func (r *Documents) DeleteMany(_ context.Context, ids []primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.byID, id)
	}
	return nil
}

func (r *Documents) sorted() []models.Document {
	out := make([]models.Document, 0, len(r.byID))
	for _, d := range r.byID {
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UploadDate.After(out[j].UploadDate) })
	return out
}

func (r *Documents) Search(_ context.Context, q documents.Query) ([]models.Document, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []models.Document
	for _, d := range r.sorted() {
		if Matches(q, &d) {
			matched = append(matched, d)
		}
	}
	total := int64(len(matched))
	start := q.Skip()
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *Documents) Recent(_ context.Context, limit int64) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sorted()
	if int64(len(all)) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *Documents) GroupByCategory(_ context.Context) (map[string][]models.DocumentSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string][]models.DocumentSummary{}
	for _, d := range r.sorted() {
		out[d.Category] = append(out[d.Category], models.DocumentSummary{
			ID:             d.ID,
			DocumentTitle:  d.DocumentTitle,
			StoredFilename: d.StoredFilename,
			DocumentType:   d.DocumentType,
			UploadDate:     d.UploadDate,
			PreparedBy:     d.PreparedBy,
			UploaderID:     d.UploaderID,
		})
	}
	return out, nil
}

func (r *Documents) LatestEntryID(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	best, bestN := "", -1
	for _, d := range r.byID {
		n, err := strconv.Atoi(d.EntryID)
		if err != nil {
			n = 0
		}
		if n > bestN {
			best, bestN = d.EntryID, n
		}
	}
	return best, nil
}

// Matches evaluates q the way the files collection filter does.
func Matches(q documents.Query, d *models.Document) bool {
	if q.Keyword != "" && !containsFold(d.OriginalName, q.Keyword) && !containsFold(d.ExtractedText, q.Keyword) {
		return false
	}
	if q.Title != "" && !containsFold(d.DocumentTitle, q.Title) {
		return false
	}
	if q.Category != "" && d.Category != q.Category {
		return false
	}
	if q.DocumentType != "" && d.DocumentType != q.DocumentType {
		return false
	}
	if q.From != nil && d.UploadDate.Before(*q.From) {
		return false
	}
	if q.To != nil && d.UploadDate.After(*q.To) {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func (r *Documents) All(_ context.Context) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(), nil
}

type Reminders struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.Reminder

	FailInsert error
	FailSync   error
	FailDelete error
}

func NewReminders() *Reminders {
	return &Reminders{byID: map[primitive.ObjectID]models.Reminder{}}
}

func (r *Reminders) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// ForDocument returns the reminders of one document.
func (r *Reminders) ForDocument(id primitive.ObjectID) []models.Reminder {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Reminder
	for _, rem := range r.byID {
		if rem.DocumentID == id {
			out = append(out, rem)
		}
	}
	return out
}

func (r *Reminders) Put(rems ...models.Reminder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rem := range rems {
		if rem.ID.IsZero() {
			rem.ID = primitive.NewObjectID()
		}
		r.byID[rem.ID] = rem
	}
}

func (r *Reminders) InsertMany(_ context.Context, rems []*models.Reminder) error {
	if r.FailInsert != nil {
		return r.FailInsert
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rem := range rems {
		r.byID[rem.ID] = *rem
	}
	return nil
}

func (r *Reminders) Upcoming(_ context.Context, from, to time.Time) ([]models.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Reminder
	for _, rem := range r.byID {
		if rem.IsCompleted || rem.IsDeleted {
			continue
		}
		if rem.SubmissionDate.Before(from) || rem.SubmissionDate.After(to) {
			continue
		}
		out = append(out, rem)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmissionDate.Before(out[j].SubmissionDate) })
	return out, nil
}

func (r *Reminders) MarkComplete(_ context.Context, id primitive.ObjectID) (*models.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("Reminder")
	}
	rem.IsCompleted = true
	r.byID[id] = rem
	return &rem, nil
}

func (r *Reminders) SyncByDocument(_ context.Context, documentID primitive.ObjectID, s models.ReminderSync) (int64, int64, error) {
	if r.FailSync != nil {
		return 0, 0, r.FailSync
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched, modified int64
	for id, rem := range r.byID {
		if rem.DocumentID != documentID {
			continue
		}
		matched++
		before := rem
		rem.DocumentTitle = s.DocumentTitle
		rem.Category = s.Category
		rem.DocumentType = s.DocumentType
		rem.PreparedBy = s.PreparedBy
		rem.SubmissionDate = s.SubmissionDate
		rem.Description = s.Description
		if rem != before {
			modified++
		}
		r.byID[id] = rem
	}
	return matched, modified, nil
}

func (r *Reminders) DeleteByDocument(_ context.Context, documentID primitive.ObjectID) (int64, error) {
	if r.FailDelete != nil {
		return 0, r.FailDelete
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, rem := range r.byID {
		if rem.DocumentID == documentID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

type Users struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.User
}

func NewUsers() *Users {
	return &Users{byID: map[primitive.ObjectID]models.User{}}
}

func (r *Users) Insert(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Username == u.Username {
			return apperr.Conflict("Username already exists.")
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.byID[u.ID] = *u
	return nil
}

func (r *Users) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return &u, nil
}

func (r *Users) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *Users) List(_ context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *Users) SetPermissions(_ context.Context, id primitive.ObjectID, set models.PermissionSet) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	u.Permissions = set
	r.byID[id] = u
	return &u, nil
}

func (r *Users) SetDesignationPermissions(_ context.Context, d models.Designation, set models.PermissionSet) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, u := range r.byID {
		if u.Designation != d {
			continue
		}
		if u.DesignationPermissions == nil {
			u.DesignationPermissions = models.DesignationPermissions{}
		}
		u.DesignationPermissions[d] = set
		r.byID[id] = u
		n++
	}
	return n, nil
}

// Tx runs functions directly. Calls counts how many units were started.
type Tx struct {
	mu    sync.Mutex
	Calls int
}

func (t *Tx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.Calls++
	t.mu.Unlock()
	return fn(ctx)
}

// Storage keeps stored binaries in memory.
type Storage struct {
	mu    sync.Mutex
	files map[string][]byte
	seq   int

	FailSave error
}

var _ storage.Storage = (*Storage)(nil)

func NewStorage() *Storage {
	return &Storage{files: map[string][]byte{}}
}

func (s *Storage) Save(_ context.Context, originalName string, r io.Reader) (storage.Stored, error) {
	if s.FailSave != nil {
		return storage.Stored{}, s.FailSave
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return storage.Stored{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	name := storage.StoredName(originalName, time.UnixMilli(int64(s.seq)))
	s.files[name] = data
	return storage.Stored{Path: name, Filename: name}, nil
}

func (s *Storage) Open(_ context.Context, filename string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[filename]
	if !ok {
		return nil, apperr.NotFound("File")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *Storage) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	return nil
}

func (s *Storage) Has(filename string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[filename]
	return ok
}

func (s *Storage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// ContentExtractor returns a file's own bytes as its text, so tests control
// extraction through upload content.
type ContentExtractor struct{}

func (ContentExtractor) Extract(_ context.Context, path, _ string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

// Upload builds an in-memory upload.
func Upload(name, content string) documents.Upload {
	return documents.Upload{
		Filename: name,
		MIMEType: "application/pdf",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte(content))), nil
		},
	}
}
