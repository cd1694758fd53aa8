package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExporterRecordsAndServes(t *testing.T) {
	exporter := NewExporter(Config{})

	exporter.RecordOperation("recommend", 120*time.Millisecond, true)
	exporter.RecordOperation("recommend", 80*time.Millisecond, false)
	exporter.RecordEmbeddingRequest("query", 300*time.Millisecond, true)
	exporter.RecordVectorsStored(10)

	families, err := exporter.Registry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	require.True(t, names["thesismatch_recommend_operation_requests_total"])
	require.True(t, names["thesismatch_recommend_operation_latency_seconds"])
	require.True(t, names["thesismatch_embedding_requests_total"])
	require.True(t, names["thesismatch_embedding_vectors_stored_total"])

	recorder := httptest.NewRecorder()
	exporter.Handler().ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, recorder.Code)
	require.Contains(t, recorder.Body.String(), "thesismatch_recommend_operation_requests_total")
}
