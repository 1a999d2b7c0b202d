package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"doctrack/backend/internal/apperr"
	"doctrack/backend/internal/documents"
	"doctrack/backend/internal/models"
	"doctrack/backend/internal/testutil"
	"doctrack/backend/internal/timezone"
)

type fixture struct {
	docs      *testutil.Documents
	reminders *testutil.Reminders
	store     *testutil.Storage
	tx        *testutil.Tx
	svc       *DocumentService
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		docs:      testutil.NewDocuments(),
		reminders: testutil.NewReminders(),
		store:     testutil.NewStorage(),
		tx:        &testutil.Tx{},
	}
	pipeline := documents.NewPipeline(testutil.ContentExtractor{}, f.store, 2).WithTempDir(t.TempDir())
	f.svc = NewDocumentService(f.docs, f.reminders, f.tx, pipeline, f.store)
	return f
}

func uploadMeta() documents.Metadata {
	return documents.Metadata{
		EntryID:        "001",
		DocumentTitle:  "Voucher 1",
		Category:       "Trial Balance",
		DocumentType:   "Trial balance summary for a specific accounting period",
		PreparedBy:     "Jane",
		SubmissionDate: timezone.Now().Add(24 * time.Hour).Format("2006-01-02"),
	}
}

func TestUpload_CreatesDocumentAndReminder(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Upload(context.Background(), primitive.NewObjectID(),
		[]documents.Upload{testutil.Upload("voucher.pdf", "Voucher 1 total 5,000")}, uploadMeta())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Received)
	assert.Equal(t, 1, res.Stored)
	require.Len(t, res.Documents, 1)
	assert.Equal(t, 1, f.docs.Len())
	assert.Equal(t, 1, f.tx.Calls)

	rems := f.reminders.ForDocument(res.Documents[0].ID)
	require.Len(t, rems, 1)
	assert.Equal(t, "Voucher 1", rems[0].DocumentTitle)
	assert.False(t, rems[0].IsCompleted)
	assert.False(t, rems[0].IsDeleted)
	assert.True(t, rems[0].SubmissionDate.Equal(res.Documents[0].SubmissionDate))
}

func TestUpload_PartialBatchIsReported(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Upload(context.Background(), primitive.NewObjectID(), []documents.Upload{
		testutil.Upload("a.pdf", "text"),
		testutil.Upload("b.png", ""),
	}, uploadMeta())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Received)
	assert.Equal(t, 1, res.Stored)
	assert.Contains(t, res.Message, "1 of 2")
	assert.Equal(t, documents.StatusSkipped, res.Files[1].Status)
}

func TestUpload_NothingStoredIsDistinct(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Upload(context.Background(), primitive.NewObjectID(),
		[]documents.Upload{testutil.Upload("b.png", "")}, uploadMeta())
	require.NoError(t, err)
	assert.Zero(t, res.Stored)
	assert.NotNil(t, res.Documents)
	assert.Contains(t, res.Message, "nothing was stored")
	assert.Zero(t, f.reminders.Len())
}

func TestUpload_ReminderFailureLeavesNothing(t *testing.T) {
	f := newFixture(t)
	f.reminders.FailInsert = errors.New("reminders unavailable")

	_, err := f.svc.Upload(context.Background(), primitive.NewObjectID(),
		[]documents.Upload{testutil.Upload("a.pdf", "text")}, uploadMeta())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindPersistence))
	assert.Zero(t, f.docs.Len())
	assert.Zero(t, f.store.Len())
}

func seed(t *testing.T, f *fixture, title string) *models.Document {
	t.Helper()
	res, err := f.svc.Upload(context.Background(), primitive.NewObjectID(),
		[]documents.Upload{testutil.Upload(title+".pdf", title+" body")}, func() documents.Metadata {
			m := uploadMeta()
			m.DocumentTitle = title
			return m
		}())
	require.NoError(t, err)
	require.Len(t, res.Documents, 1)
	return res.Documents[0]
}

func TestUpdate_SyncsReminders(t *testing.T) {
	f := newFixture(t)
	doc := seed(t, f, "Voucher 1")

	res, err := f.svc.Update(context.Background(), doc.ID.Hex(), Changes{
		DocumentTitle:  "Voucher 1 (revised)",
		Category:       "General Ledger",
		DocumentType:   "Monthly financial summaries",
		SubmissionDate: "2030-01-02",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RemindersMatched)
	assert.Equal(t, int64(1), res.RemindersUpdated)

	rem := f.reminders.ForDocument(doc.ID)[0]
	assert.Equal(t, "Voucher 1 (revised)", rem.DocumentTitle)
	assert.Equal(t, "General Ledger", rem.Category)
	assert.Equal(t, 2030, rem.SubmissionDate.Year())
	assert.Equal(t, "Jane", rem.PreparedBy)
}

func TestUpdate_RejectsInconsistentPair(t *testing.T) {
	f := newFixture(t)
	doc := seed(t, f, "Voucher 1")

	_, err := f.svc.Update(context.Background(), doc.ID.Hex(), Changes{Category: "General Ledger"}, nil)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "Document type does not belong to selected category", e.Message)
}

func TestUpdate_ReplacesFile(t *testing.T) {
	f := newFixture(t)
	doc := seed(t, f, "Voucher 1")
	replacement := testutil.Upload("scan.png", "")

	res, err := f.svc.Update(context.Background(), doc.ID.Hex(), Changes{}, &replacement)
	require.NoError(t, err)

	assert.Equal(t, "scan.png", res.Document.OriginalName)
	assert.NotEqual(t, doc.StoredFilename, res.Document.StoredFilename)
	assert.False(t, f.store.Has(doc.StoredFilename))
	assert.True(t, f.store.Has(res.Document.StoredFilename))
	assert.Empty(t, res.Document.ExtractedText)
}

func TestUpdate_ReminderFailureRestoresRecord(t *testing.T) {
	f := newFixture(t)
	doc := seed(t, f, "Voucher 1")
	f.reminders.FailSync = errors.New("write conflict")
	replacement := testutil.Upload("scan.pdf", "rescanned voucher")

	_, err := f.svc.Update(context.Background(), doc.ID.Hex(), Changes{DocumentTitle: "Voucher 1 (revised)"}, &replacement)
	assert.True(t, apperr.Is(err, apperr.KindPersistence))

	stored, err := f.docs.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.StoredFilename, stored.StoredFilename)
	assert.Equal(t, "Voucher 1", stored.DocumentTitle)
	assert.True(t, f.store.Has(stored.StoredFilename))
	assert.Equal(t, 1, f.store.Len())
}

func TestUpdate_UnknownAndMalformedIDs(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Update(context.Background(), primitive.NewObjectID().Hex(), Changes{}, nil)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = f.svc.Update(context.Background(), "not-an-id", Changes{}, nil)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestDelete_RemovesEverything(t *testing.T) {
	f := newFixture(t)
	doc := seed(t, f, "Voucher 1")

	res, err := f.svc.Delete(context.Background(), doc.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RemindersDeleted)
	assert.Zero(t, f.docs.Len())
	assert.Zero(t, f.reminders.Len())
	assert.False(t, f.store.Has(doc.StoredFilename))
}

func TestDelete_SucceedsWhenReminderCleanupFails(t *testing.T) {
	f := newFixture(t)
	doc := seed(t, f, "Voucher 1")
	f.reminders.FailDelete = errors.New("timeout")

	res, err := f.svc.Delete(context.Background(), doc.ID.Hex())
	require.NoError(t, err)
	assert.Zero(t, res.RemindersDeleted)
	assert.Zero(t, f.docs.Len())
}

func TestDelete_KeepsFileWhenRecordDeleteFails(t *testing.T) {
	f := newFixture(t)
	doc := seed(t, f, "Voucher 1")
	f.docs.FailDelete = errors.New("timeout")

	_, err := f.svc.Delete(context.Background(), doc.ID.Hex())
	assert.True(t, apperr.Is(err, apperr.KindPersistence))
	assert.Equal(t, 1, f.docs.Len())
	assert.True(t, f.store.Has(doc.StoredFilename))
}

func TestSearch_PaginatesNewestFirst(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, timezone.Location())
	for i := 0; i < 15; i++ {
		f.docs.Put(models.Document{
			DocumentTitle: "Ledger",
			Category:      "General Ledger",
			DocumentType:  "Monthly financial summaries",
			ExtractedText: "income",
			UploadDate:    base.Add(time.Duration(i) * time.Hour),
		})
	}

	page, err := f.svc.Search(context.Background(), documents.SearchParams{Keyword: "INCOME", Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(15), page.TotalCount)
	assert.Equal(t, int64(2), page.TotalPages)
	require.Len(t, page.Items, 5)
	assert.True(t, page.Items[0].UploadDate.After(page.Items[1].UploadDate))
	assert.Equal(t, base, page.Items[4].UploadDate)
}

func TestNextEntryID(t *testing.T) {
	f := newFixture(t)

	id, err := f.svc.NextEntryID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "001", id)

	f.docs.Put(models.Document{EntryID: "009"}, models.Document{EntryID: "010"}, models.Document{EntryID: "draft"})
	id, err = f.svc.NextEntryID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "011", id)
}

func TestOpenFile(t *testing.T) {
	f := newFixture(t)
	doc := seed(t, f, "Voucher 1")

	_, rc, err := f.svc.OpenFile(context.Background(), doc.ID.Hex())
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "Voucher 1 body", string(data))

	require.NoError(t, f.store.Delete(context.Background(), doc.StoredFilename))
	_, _, err = f.svc.OpenFile(context.Background(), doc.ID.Hex())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRecent_FormatsManilaDates(t *testing.T) {
	f := newFixture(t)
	f.docs.Put(models.Document{
		DocumentTitle: "TB",
		UploadDate:    time.Date(2025, 3, 1, 0, 30, 0, 0, time.UTC),
	})

	out, err := f.svc.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "2025-03-01 08:30:00", out[0].UploadDate)
}
