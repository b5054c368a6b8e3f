package reconcile

import (
	"context"

	"ongsys-sync/core/erpnext"
)

// stubClient is a function-backed erpnext.Client for engine tests.
type stubClient struct {
	getDoc  func(ctx context.Context, doctype, name string, fields []string) (erpnext.Doc, error)
	list    func(ctx context.Context, doctype string, opts erpnext.ListOptions) ([]erpnext.Doc, error)
	findOne func(ctx context.Context, doctype string, filters []erpnext.Filter) (erpnext.Doc, error)
	create  func(ctx context.Context, doctype string, payload map[string]any) error
	update  func(ctx context.Context, doctype, name string, changes map[string]any) error
	exists  func(ctx context.Context, doctype, name string) erpnext.Existence
}

var _ erpnext.Client = (*stubClient)(nil)

func (s *stubClient) GetDoc(ctx context.Context, doctype, name string, fields []string) (erpnext.Doc, error) {
	if s.getDoc != nil {
		return s.getDoc(ctx, doctype, name, fields)
	}
	return nil, erpnext.ErrNotFound
}

func (s *stubClient) List(ctx context.Context, doctype string, opts erpnext.ListOptions) ([]erpnext.Doc, error) {
	if s.list != nil {
		return s.list(ctx, doctype, opts)
	}
	return nil, nil
}

func (s *stubClient) FindOne(ctx context.Context, doctype string, filters []erpnext.Filter) (erpnext.Doc, error) {
	if s.findOne != nil {
		return s.findOne(ctx, doctype, filters)
	}
	return nil, nil
}

func (s *stubClient) Create(ctx context.Context, doctype string, payload map[string]any) error {
	if s.create != nil {
		return s.create(ctx, doctype, payload)
	}
	return nil
}

func (s *stubClient) Update(ctx context.Context, doctype, name string, changes map[string]any) error {
	if s.update != nil {
		return s.update(ctx, doctype, name, changes)
	}
	return nil
}

func (s *stubClient) Exists(ctx context.Context, doctype, name string) erpnext.Existence {
	if s.exists != nil {
		return s.exists(ctx, doctype, name)
	}
	return erpnext.Absent
}
