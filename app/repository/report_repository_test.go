package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildMatchFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, buildMatchFilter(ReportFilter{}))

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	m := buildMatchFilter(ReportFilter{From: &from})
	assert.Equal(t, bson.M{"createdAt": bson.M{"$gte": from}}, m)

	m = buildMatchFilter(ReportFilter{From: &from, To: &to})
	assert.Equal(t, bson.M{"createdAt": bson.M{"$gte": from, "$lte": to}}, m)
}

func TestNoopReportRepository(t *testing.T) {
	report, err := NewReportRepository(nil).Activity(context.Background(), ReportFilter{})
	require.NoError(t, err)
	assert.Zero(t, report.TotalEvents)
	assert.NotNil(t, report.ByAction)
	assert.NotNil(t, report.ByPeriod)
	assert.NotNil(t, report.TopWorkers)
}
