package supplier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ongsys-sync/core/config"
	"ongsys-sync/core/erpnext"
	"ongsys-sync/core/erpnext/mocks"
	"ongsys-sync/core/ongsys"
	"ongsys-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func defaultOpts() config.Sync {
	return config.Sync{
		DisableInactive:      true,
		DefaultSupplierGroup: "Local",
		DefaultSupplierType:  "Company",
	}
}

func TestNormalize_ActiveSupplier(t *testing.T) {
	rec := ongsys.Record{
		"nomeEmpresa": "  Fornecedor Alfa Ltda  ",
		"documento":   "12.345.678/0001-90",
		"status":      "Ativo",
	}

	target, skip := Normalize(rec, defaultOpts())

	require.Empty(t, skip)
	assert.Equal(t, "Fornecedor Alfa Ltda", target["supplier_name"])
	assert.Equal(t, "Local", target["supplier_group"])
	assert.Equal(t, "Company", target["supplier_type"])
	assert.Equal(t, "12.345.678/0001-90", target["tax_id"])
	assert.Equal(t, 0, target["disabled"])
}

func TestNormalize_InactiveMirroredAsDisabled(t *testing.T) {
	rec := ongsys.Record{
		"razaoSocial": "Fornecedor Beta",
		"status":      "Inativo",
	}

	target, skip := Normalize(rec, defaultOpts())

	require.Empty(t, skip)
	assert.Equal(t, 1, target["disabled"])
}

func TestNormalize_InactiveSkippedWhenOnlyActive(t *testing.T) {
	opts := defaultOpts()
	opts.OnlyActive = true

	_, skip := Normalize(ongsys.Record{
		"nomeEmpresa": "Fornecedor Gama",
		"status":      "inativo",
	}, opts)

	assert.Equal(t, "inactive supplier", skip)
}

func TestNormalize_MissingNameIsDroppedNotFailed(t *testing.T) {
	_, skip := Normalize(ongsys.Record{"documento": "123"}, defaultOpts())
	assert.Equal(t, "missing company name", skip)
}

func TestNormalize_NoDisabledFieldWhenToggleOff(t *testing.T) {
	opts := defaultOpts()
	opts.DisableInactive = false

	target, skip := Normalize(ongsys.Record{
		"nomeEmpresa": "Fornecedor Delta",
		"status":      "inativo",
	}, opts)

	require.Empty(t, skip)
	_, has := target["disabled"]
	assert.False(t, has)
}

func TestNormalize_NameTruncatedTo140Runes(t *testing.T) {
	long := make([]rune, 200)
	for i := range long {
		long[i] = 'ã'
	}

	target, skip := Normalize(ongsys.Record{"nomeEmpresa": string(long)}, defaultOpts())

	require.Empty(t, skip)
	assert.Len(t, []rune(target["supplier_name"].(string)), 140)
}

func TestKey_PrefersTaxID(t *testing.T) {
	assert.Equal(t, "42", Key(ongsys.Record{"cnpj": "42", "nomeEmpresa": "X"}))
	assert.Equal(t, "X", Key(ongsys.Record{"nomeEmpresa": "X"}))
}

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
	ensurer := reconcile.NewEnsurer(dst, log, 1, 1)
	return NewJob(src, dst, ensurer, defaultOpts(), log)
}

func TestRun_CreatesNewSupplier(t *testing.T) {
	src := sourceServer(t, []map[string]any{
		{"nomeEmpresa": "Fornecedor Alfa", "documento": "111", "status": "Ativo"},
	})

	dst := new(mocks.Client)
	dst.On("FindOne", mock.Anything, "Supplier", mock.Anything).Return(nil, nil)
	dst.On("Exists", mock.Anything, "Supplier Group", "Local").Return(erpnext.Found)
	dst.On("Create", mock.Anything, "Supplier", mock.MatchedBy(func(p map[string]any) bool {
		return p["supplier_name"] == "Fornecedor Alfa" && p["tax_id"] == "111"
	})).Return(nil)

	counters := newTestJob(src, dst).Run(context.Background())

	assert.Equal(t, 1, counters.Extracted)
	assert.Equal(t, 1, counters.Created)
	assert.Equal(t, 0, counters.Failed)
	dst.AssertExpectations(t)
}

func TestRun_UnchangedSupplierSendsNoWrite(t *testing.T) {
	src := sourceServer(t, []map[string]any{
		{"nomeEmpresa": "Fornecedor Alfa", "documento": "111", "status": "Ativo"},
	})

	existing := erpnext.Doc{
		"name":           "Fornecedor Alfa",
		"supplier_name":  "Fornecedor Alfa",
		"supplier_group": "Local",
		"supplier_type":  "Company",
		"tax_id":         "111",
		"disabled":       float64(0),
	}

	dst := new(mocks.Client)
	dst.On("FindOne", mock.Anything, "Supplier",
		[]erpnext.Filter{erpnext.Eq("tax_id", "111")}).Return(erpnext.Doc{"name": "Fornecedor Alfa"}, nil)
	dst.On("GetDoc", mock.Anything, "Supplier", "Fornecedor Alfa", mock.Anything).Return(existing, nil)

	counters := newTestJob(src, dst).Run(context.Background())

	assert.Equal(t, 1, counters.Unchanged)
	dst.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	dst.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_ReactivatedSupplierUpdatesDisabledOnly(t *testing.T) {
	src := sourceServer(t, []map[string]any{
		{"nomeEmpresa": "Fornecedor Alfa", "documento": "111", "status": "Ativo"},
	})

	existing := erpnext.Doc{
		"name":           "Fornecedor Alfa",
		"supplier_name":  "Fornecedor Alfa",
		"supplier_group": "Local",
		"supplier_type":  "Company",
		"tax_id":         "111",
		"disabled":       float64(1),
	}

	dst := new(mocks.Client)
	dst.On("FindOne", mock.Anything, "Supplier", mock.Anything).Return(erpnext.Doc{"name": "Fornecedor Alfa"}, nil)
	dst.On("GetDoc", mock.Anything, "Supplier", "Fornecedor Alfa", mock.Anything).Return(existing, nil)
	dst.On("Update", mock.Anything, "Supplier", "Fornecedor Alfa",
		map[string]any{"disabled": 0}).Return(nil)

	counters := newTestJob(src, dst).Run(context.Background())

	assert.Equal(t, 1, counters.Updated)
	dst.AssertExpectations(t)
}

func TestRun_RecordFailureDoesNotAbortRun(t *testing.T) {
	src := sourceServer(t, []map[string]any{
		{"nomeEmpresa": "Quebrado", "documento": "1"},
		{"nomeEmpresa": "Saudável", "documento": "2"},
	})

	dst := new(mocks.Client)
	dst.On("FindOne", mock.Anything, "Supplier",
		[]erpnext.Filter{erpnext.Eq("tax_id", "1")}).Return(nil, assert.AnError)
	dst.On("FindOne", mock.Anything, "Supplier", mock.Anything).Return(nil, nil)
	dst.On("Exists", mock.Anything, "Supplier Group", "Local").Return(erpnext.Found)
	dst.On("Create", mock.Anything, "Supplier", mock.Anything).Return(nil)

	counters := newTestJob(src, dst).Run(context.Background())

	assert.Equal(t, 1, counters.Failed)
	assert.Equal(t, 1, counters.Created)
}
