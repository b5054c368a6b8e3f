package warehouse

import (
	"context"
	"testing"

	"ongsys-sync/core/config"
	"ongsys-sync/core/erpnext"
	"ongsys-sync/core/erpnext/mocks"
	"ongsys-sync/core/mapping"
	"ongsys-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newTestJob(dst erpnext.Client, table *mapping.Table) *Job {
	log := zap.NewNop()
	opts := config.Sync{Company: "CDC"}
	return NewJob(reconcile.NewEnsurer(dst, log, 1, 1), table, opts, log)
}

func TestRun_EnsuresDistinctWarehouses(t *testing.T) {
	// Two rules share a warehouse; it must be ensured once.
	table := &mapping.Table{Rules: []mapping.Rule{
		{CostCenter: "101", Warehouse: "Central"},
		{CostCenter: "102", Warehouse: "Central"},
		{CostCenter: "103", Warehouse: "Filial"},
	}}

	dst := new(mocks.Client)
	dst.On("Exists", mock.Anything, "Warehouse", "Central").Return(erpnext.Found).Once()
	dst.On("Exists", mock.Anything, "Warehouse", "Filial").Return(erpnext.Absent)
	dst.On("Create", mock.Anything, "Warehouse", map[string]any{
		"warehouse_name": "Filial",
		"company":        "CDC",
		"is_group":       0,
	}).Return(nil)

	counters := newTestJob(dst, table).Run(context.Background())

	assert.Equal(t, 2, counters.Extracted)
	assert.Equal(t, 1, counters.Unchanged)
	assert.Equal(t, 1, counters.Created+counters.Unconfirmed)
	dst.AssertExpectations(t)
}

func TestRun_FailureCountsAndContinues(t *testing.T) {
	table := &mapping.Table{Rules: []mapping.Rule{
		{CostCenter: "101", Warehouse: "Quebrado"},
		{CostCenter: "102", Warehouse: "Filial"},
	}}

	dst := new(mocks.Client)
	dst.On("Exists", mock.Anything, "Warehouse", "Quebrado").Return(erpnext.Absent)
	dst.On("Create", mock.Anything, "Warehouse", mock.MatchedBy(func(p map[string]any) bool {
		return p["warehouse_name"] == "Quebrado"
	})).Return(assert.AnError)
	dst.On("Exists", mock.Anything, "Warehouse", "Filial").Return(erpnext.Found)

	counters := newTestJob(dst, table).Run(context.Background())

	assert.Equal(t, 1, counters.Failed)
	assert.Equal(t, 1, counters.Unchanged)
}
