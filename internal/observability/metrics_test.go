package observability

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSyncRun_StampsLastSynced(t *testing.T) {
	RecordSyncRun("error", 0.1)
	assert.Equal(t, float64(0), testutil.ToFloat64(DefaultMetrics.LastSyncedUnix))

	RecordSyncRun("ok", 0.1)
	assert.Greater(t, testutil.ToFloat64(DefaultMetrics.LastSyncedUnix), float64(0))
}

func TestRecordReportGenerated(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.ReportsGenerated)
	RecordReportGenerated()
	assert.Equal(t, before+1, testutil.ToFloat64(DefaultMetrics.ReportsGenerated))
}

func TestRecordDBQuery_CountsErrors(t *testing.T) {
	errCount := func() float64 {
		return testutil.ToFloat64(DefaultMetrics.DBQueryErrors.WithLabelValues("postgres", "select"))
	}

	before := errCount()
	RecordDBQuery("postgres", "select", 0.01, nil)
	assert.Equal(t, before, errCount())

	RecordDBQuery("postgres", "select", 0.01, errors.New("connection reset"))
	assert.Equal(t, before+1, errCount())
}
