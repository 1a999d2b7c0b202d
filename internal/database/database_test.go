package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"doctrack/backend/internal/models"
)

func TestConnect_RequiresURI(t *testing.T) {
	_, err := Connect(context.Background(), "")
	assert.Error(t, err)
}

func TestUpcomingFilter(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(240 * time.Hour)

	f := upcomingFilter(from, to)
	assert.Equal(t, false, f["isDeleted"])
	assert.Equal(t, false, f["isCompleted"])
	assert.Equal(t, bson.M{"$gte": from, "$lte": to}, f["submissionDate"])
}

func TestDesignationUpdate_KeysByDesignation(t *testing.T) {
	set := models.PermissionSet{View: true, Edit: true}
	u := designationUpdate(models.DesignationAccountant, set)

	fields, ok := u["$set"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, set, fields["designationPermissions.Accountant"])
	assert.Contains(t, fields, "updatedAt")
}

func TestNumericCollation(t *testing.T) {
	c := numericCollation()
	assert.True(t, c.NumericOrdering)
	assert.Equal(t, "en", c.Locale)
}

func TestGroupByCategoryPipeline(t *testing.T) {
	p := groupByCategoryPipeline()
	require.Len(t, p, 2)
	assert.Equal(t, "$sort", p[0][0].Key)
	assert.Equal(t, "$group", p[1][0].Key)
}

func TestToInterfaces(t *testing.T) {
	docs := []*models.Document{{DocumentTitle: "a"}, {DocumentTitle: "b"}}
	out := toInterfaces(docs)
	require.Len(t, out, 2)
	assert.Same(t, docs[1], out[1])
}
