// Package erpnext implements the client for the ERPNext resource API.
//
// The API is token-authenticated REST CRUD over named resource
// collections: GET by exact docname (404 if absent), GET with a
// JSON-encoded filter array, POST to create and partial PUT to update.
// Response envelopes vary between Frappe versions ({"data": {...}} versus
// a bare object), so decoding tolerates both shapes.
//
// The Client interface is the main testability seam of the toolkit: sync
// jobs depend on it, tests swap in stubs or httptest-backed instances.
package erpnext
