package documents_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"doctrack/backend/internal/apperr"
	"doctrack/backend/internal/documents"
	"doctrack/backend/internal/models"
	"doctrack/backend/internal/testutil"
)

func meta() documents.Metadata {
	return documents.Metadata{
		EntryID:        "012",
		DocumentTitle:  "Voucher 1",
		Category:       "Trial Balance",
		DocumentType:   "Trial balance summary for a specific accounting period",
		PreparedBy:     "Jane",
		SubmissionDate: "2025-03-14",
	}
}

type recorder struct {
	docs []*models.Document
	err  error
}

func (r *recorder) Commit(_ context.Context, docs []*models.Document) error {
	r.docs = docs
	return r.err
}

func newPipeline(t *testing.T) (*documents.Pipeline, *testutil.Storage) {
	store := testutil.NewStorage()
	return documents.NewPipeline(testutil.ContentExtractor{}, store, 2).WithTempDir(t.TempDir()), store
}

func TestIngest_SkipsFilesWithoutText(t *testing.T) {
	p, store := newPipeline(t)
	rec := &recorder{}
	uploader := primitive.NewObjectID()

	batch, err := p.Ingest(context.Background(), []documents.Upload{
		testutil.Upload("a.pdf", "voucher text"),
		testutil.Upload("blank.png", "  \n "),
		testutil.Upload("c.pdf", "more text"),
	}, meta(), uploader, rec)
	require.NoError(t, err)

	require.Len(t, batch.Documents, 2)
	assert.Equal(t, batch.Documents, rec.docs)
	assert.Equal(t, 2, store.Len())
	for _, d := range batch.Documents {
		assert.Equal(t, "012", d.EntryID)
		assert.Equal(t, uploader, d.UploaderID)
		assert.True(t, store.Has(d.StoredFilename))
		assert.Regexp(t, `^documents-\d+-\d+\.pdf$`, d.StoredFilename)
	}

	require.Len(t, batch.Files, 3)
	assert.Equal(t, documents.StatusStored, batch.Files[0].Status)
	assert.Equal(t, batch.Documents[0].ID.Hex(), batch.Files[0].DocumentID)
	assert.Equal(t, documents.StatusSkipped, batch.Files[1].Status)
	assert.NotEmpty(t, batch.Files[1].Reason)
	assert.Equal(t, "c.pdf", batch.Files[2].OriginalName)
}

func TestIngest_NothingExtractedCommitsNothing(t *testing.T) {
	p, store := newPipeline(t)
	rec := &recorder{}

	batch, err := p.Ingest(context.Background(), []documents.Upload{testutil.Upload("blank.png", "")}, meta(), primitive.NewObjectID(), rec)
	require.NoError(t, err)
	assert.Empty(t, batch.Documents)
	assert.Nil(t, rec.docs)
	assert.Zero(t, store.Len())
}

func TestIngest_ValidationFailsBeforeAnyWork(t *testing.T) {
	p, store := newPipeline(t)
	m := meta()
	m.Category = "Receipts"

	_, err := p.Ingest(context.Background(), []documents.Upload{testutil.Upload("a.pdf", "text")}, m, primitive.NewObjectID(), &recorder{})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Zero(t, store.Len())
}

func TestIngest_NoFiles(t *testing.T) {
	p, _ := newPipeline(t)
	_, err := p.Ingest(context.Background(), nil, meta(), primitive.NewObjectID(), &recorder{})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"documents"}, e.Fields)
}

func TestIngest_CommitFailureRemovesBinaries(t *testing.T) {
	p, store := newPipeline(t)
	rec := &recorder{err: errors.New("write conflict")}

	_, err := p.Ingest(context.Background(), []documents.Upload{
		testutil.Upload("a.pdf", "one"),
		testutil.Upload("b.pdf", "two"),
	}, meta(), primitive.NewObjectID(), rec)
	require.Error(t, err)
	assert.Zero(t, store.Len())
}

func TestIngest_StorageFailureIsPersistence(t *testing.T) {
	p, store := newPipeline(t)
	store.FailSave = errors.New("disk full")

	_, err := p.Ingest(context.Background(), []documents.Upload{testutil.Upload("a.pdf", "one")}, meta(), primitive.NewObjectID(), &recorder{})
	assert.True(t, apperr.Is(err, apperr.KindPersistence))
}

func TestReplace_AcceptsEmptyText(t *testing.T) {
	p, store := newPipeline(t)

	r, err := p.Replace(context.Background(), testutil.Upload("scan.png", ""))
	require.NoError(t, err)
	assert.Empty(t, r.Text)
	assert.True(t, store.Has(r.Stored.Filename))
}
