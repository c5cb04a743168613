package versions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasPrefix(r.URL.Path, "/dist") {
			json.NewEncoder(w).Encode([]nodeRelease{
				{Version: "v22.1.0", Date: "2025-05-01"},
				{Version: "v22.0.0", Date: "2025-04-01"},
			})
			return
		}
		json.NewEncoder(w).Encode(registryLatest{Version: "1.2.3", Time: "2025-06-01"})
	}))
	t.Cleanup(srv.Close)

	s := New()
	s.http = resty.New().SetTimeout(2 * time.Second)
	s.registryURL = srv.URL
	s.nodeDistURL = srv.URL + "/dist/index.json"
	return s, srv
}

func TestRefreshPopulatesSnapshot(t *testing.T) {
	s, _ := newTestService(t)

	require.NoError(t, s.Refresh(context.Background()))

	snapshot := s.Snapshot()
	require.Len(t, snapshot, len(npmPackages)+1)

	byName := map[string]Framework{}
	for _, f := range snapshot {
		byName[f.Name] = f
	}

	assert.Equal(t, "1.2.3", byName["React"].Version)
	assert.Equal(t, "frontend", byName["React"].Category)
	assert.Equal(t, "v22.1.0", byName["Node.js"].Version)
}

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	s, srv := newTestService(t)
	require.NoError(t, s.Refresh(context.Background()))

	srv.Close()
	err := s.Refresh(context.Background())
	assert.Error(t, err)

	// The previous snapshot survives a total refresh failure.
	assert.Len(t, s.Snapshot(), len(npmPackages)+1)
}

func TestSnapshotEmptyBeforeFirstRefresh(t *testing.T) {
	s := New()
	assert.Empty(t, s.Snapshot())
}
