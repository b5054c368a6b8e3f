package itemgroup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ongsys-sync/core/erpnext"
	"ongsys-sync/core/erpnext/mocks"
	"ongsys-sync/core/ongsys"
	"ongsys-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func sourceServer(t *testing.T, records []map[string]any) *ongsys.Client {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageNumber") != "1" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": records})
	}))
	t.Cleanup(srv.Close)

	return ongsys.NewClient(ongsys.Config{
		BaseURL:  srv.URL,
		Username: "user",
		Password: "pass",
	}, zap.NewNop())
}

func newTestJob(src *ongsys.Client, dst erpnext.Client) *Job {
	log := zap.NewNop()
	return NewJob(src, dst, reconcile.NewEnsurer(dst, log, 1, 1), log)
}

func TestDistinctGroups_DedupAndSort(t *testing.T) {
	records := []ongsys.Record{
		{"grupo": "Filtros"},
		{"grupo": " Filtros "},
		{"grupo": "Abrasivos"},
		{"grupo": ""},
		{"outro": "x"},
	}

	assert.Equal(t, []string{"Abrasivos", "Filtros"}, distinctGroups(records))
}

func TestRun_CreatesOnlyMissingGroups(t *testing.T) {
	src := sourceServer(t, []map[string]any{
		{"id": 1, "grupo": "Filtros"},
		{"id": 2, "grupo": "Abrasivos"},
	})

	dst := new(mocks.Client)
	dst.On("List", mock.Anything, "Item Group", mock.Anything).
		Return([]erpnext.Doc{{"item_group_name": "Filtros"}}, nil)
	dst.On("Exists", mock.Anything, "Item Group", "Abrasivos").Return(erpnext.Absent)
	dst.On("Create", mock.Anything, "Item Group", map[string]any{
		"item_group_name": "Abrasivos",
		"is_group":        1,
	}).Return(nil)

	counters := newTestJob(src, dst).Run(context.Background())

	// "Abrasivos" never becomes visible within the short test deadline,
	// so its creation counts as unconfirmed rather than created.
	assert.Equal(t, 1, counters.Unchanged)
	assert.Equal(t, 1, counters.Unconfirmed+counters.Created)
	assert.Equal(t, 0, counters.Failed)
	dst.AssertExpectations(t)
}

func TestRun_ListFailureFailsAllCandidates(t *testing.T) {
	src := sourceServer(t, []map[string]any{{"id": 1, "grupo": "Filtros"}})

	dst := new(mocks.Client)
	dst.On("List", mock.Anything, "Item Group", mock.Anything).Return(nil, assert.AnError)

	counters := newTestJob(src, dst).Run(context.Background())

	assert.Equal(t, 1, counters.Failed)
	dst.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}
