package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"doctrack/backend/internal/apperr"
	"doctrack/backend/internal/models"
	"doctrack/backend/internal/testutil"
	"doctrack/backend/internal/timezone"
)

func TestUpcoming_Window(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, timezone.Location())
	rems := testutil.NewReminders()
	svc := NewReminderService(rems, testutil.NewDocuments()).WithClock(func() time.Time { return now })

	rems.Put(
		models.Reminder{DocumentTitle: "due soon", SubmissionDate: now.Add(48 * time.Hour)},
		models.Reminder{DocumentTitle: "edge", SubmissionDate: now.Add(ReminderWindow)},
		models.Reminder{DocumentTitle: "past", SubmissionDate: now.Add(-time.Hour)},
		models.Reminder{DocumentTitle: "too far", SubmissionDate: now.Add(ReminderWindow + time.Minute)},
		models.Reminder{DocumentTitle: "done", SubmissionDate: now.Add(time.Hour), IsCompleted: true},
		models.Reminder{DocumentTitle: "gone", SubmissionDate: now.Add(time.Hour), IsDeleted: true},
	)

	out, err := svc.Upcoming(context.Background())
	require.NoError(t, err)
	var titles []string
	for _, r := range out {
		titles = append(titles, r.DocumentTitle)
	}
	assert.Equal(t, []string{"due soon", "edge"}, titles)
}

func TestCreateReminder(t *testing.T) {
	rems := testutil.NewReminders()
	svc := NewReminderService(rems, testutil.NewDocuments())

	_, err := svc.Create(context.Background(), NewReminder{DocumentTitle: "x"})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"documentId", "submissionDate"}, e.Fields)

	r, err := svc.Create(context.Background(), NewReminder{
		DocumentID:     primitive.NewObjectID().Hex(),
		DocumentTitle:  "Voucher",
		SubmissionDate: "2025-04-01",
	})
	require.NoError(t, err)
	assert.False(t, r.IsCompleted)
	assert.Equal(t, 1, rems.Len())
}

func TestMarkComplete(t *testing.T) {
	rems := testutil.NewReminders()
	svc := NewReminderService(rems, testutil.NewDocuments())
	id := primitive.NewObjectID()
	rems.Put(models.Reminder{ID: id, DocumentTitle: "Voucher"})

	r, err := svc.MarkComplete(context.Background(), id.Hex())
	require.NoError(t, err)
	assert.True(t, r.IsCompleted)

	_, err = svc.MarkComplete(context.Background(), primitive.NewObjectID().Hex())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestSyncForDocument(t *testing.T) {
	docs := testutil.NewDocuments()
	rems := testutil.NewReminders()
	svc := NewReminderService(rems, docs)

	doc := models.Document{
		ID:            primitive.NewObjectID(),
		DocumentTitle: "Voucher",
		Category:      "Trial Balance",
		PreparedBy:    "Jane",
	}
	docs.Put(doc)

	_, err := svc.SyncForDocument(context.Background(), doc.ID.Hex(), ReminderUpdate{DocumentTitle: "New"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "no reminders yet")

	rems.Put(models.Reminder{DocumentID: doc.ID, DocumentTitle: "Voucher"}, models.Reminder{DocumentID: doc.ID, DocumentTitle: "Voucher"})
	res, err := svc.SyncForDocument(context.Background(), doc.ID.Hex(), ReminderUpdate{DocumentTitle: "New"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.MatchedCount)
	for _, r := range rems.ForDocument(doc.ID) {
		assert.Equal(t, "New", r.DocumentTitle)
		assert.Equal(t, "Jane", r.PreparedBy)
	}
}

func TestDeleteForDocument(t *testing.T) {
	rems := testutil.NewReminders()
	svc := NewReminderService(rems, testutil.NewDocuments())
	docID := primitive.NewObjectID()
	rems.Put(models.Reminder{DocumentID: docID}, models.Reminder{DocumentID: primitive.NewObjectID()})

	n, err := svc.DeleteForDocument(context.Background(), docID.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, rems.Len())

	_, err = svc.DeleteForDocument(context.Background(), docID.Hex())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
