package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/blogql/internal/store"
)

type fakeStats struct {
	stats store.Stats
	err   error
}

func (f fakeStats) Stats(context.Context) (store.Stats, error) {
	return f.stats, f.err
}

func TestRecorderObserve(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	rec, err := New(reg, nil)
	require.NoError(t, err)

	rec.Observe("users", nil, 5*time.Millisecond)
	rec.Observe("users", nil, 5*time.Millisecond)
	rec.Observe("createUser", errors.New("boom"), time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.operations.WithLabelValues("users", StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.operations.WithLabelValues("createUser", StatusError)))
	assert.Equal(t, 0.0, testutil.ToFloat64(rec.operations.WithLabelValues("createUser", StatusOK)))
	assert.Equal(t, 2, testutil.CollectAndCount(rec.duration, "blogql_graphql_operation_duration_seconds"))
}

func TestNilRecorder(t *testing.T) {
	var rec *Recorder
	assert.NotPanics(t, func() {
		rec.Observe("users", nil, time.Second)
	})
}

func TestNewRegistersTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg, nil)
	require.NoError(t, err)

	_, err = New(reg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "register metrics")
}

func TestStoreCollector(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	_, err := New(reg, fakeStats{stats: store.Stats{Users: 2, Posts: 3, Comments: 4}})
	require.NoError(t, err)

	want := `
# HELP blogql_store_records Number of records currently held, by kind
# TYPE blogql_store_records gauge
blogql_store_records{kind="comment"} 4
blogql_store_records{kind="post"} 3
blogql_store_records{kind="user"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want), "blogql_store_records"))
}

func TestStoreCollectorError(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg, fakeStats{err: errors.New("closed")})
	require.NoError(t, err)

	_, err = reg.Gather()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := New(reg, fakeStats{stats: store.Stats{Users: 1}})
	require.NoError(t, err)
	rec.Observe("posts", nil, time.Millisecond)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `blogql_graphql_operations_total{operation="posts",status="ok"} 1`)
	assert.Contains(t, string(body), `blogql_store_records{kind="user"} 1`)
}
