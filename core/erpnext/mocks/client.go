package mocks

import (
	"context"

	"ongsys-sync/core/erpnext"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of erpnext.Client
type Client struct {
	mock.Mock
}

func (m *Client) GetDoc(ctx context.Context, doctype, name string, fields []string) (erpnext.Doc, error) {
	args := m.Called(ctx, doctype, name, fields)
	if doc, ok := args.Get(0).(erpnext.Doc); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) List(ctx context.Context, doctype string, opts erpnext.ListOptions) ([]erpnext.Doc, error) {
	args := m.Called(ctx, doctype, opts)
	if docs, ok := args.Get(0).([]erpnext.Doc); ok {
		return docs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) FindOne(ctx context.Context, doctype string, filters []erpnext.Filter) (erpnext.Doc, error) {
	args := m.Called(ctx, doctype, filters)
	if doc, ok := args.Get(0).(erpnext.Doc); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Create(ctx context.Context, doctype string, payload map[string]any) error {
	args := m.Called(ctx, doctype, payload)
	return args.Error(0)
}

func (m *Client) Update(ctx context.Context, doctype, name string, changes map[string]any) error {
	args := m.Called(ctx, doctype, name, changes)
	return args.Error(0)
}

func (m *Client) Exists(ctx context.Context, doctype, name string) erpnext.Existence {
	args := m.Called(ctx, doctype, name)
	return args.Get(0).(erpnext.Existence)
}
