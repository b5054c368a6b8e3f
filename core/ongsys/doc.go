// Package ongsys implements the client for the ONGSYS source API.
//
// ONGSYS exposes paginated listing endpoints (suppliers, products, orders)
// behind HTTP Basic authentication. Pagination is driven by a pageNumber
// query parameter, and the API ends a listing inconsistently across
// endpoints: an empty data array, a declared totalRecords count, an HTTP
// 422 status, or a textual "no more records" payload. FetchAll honors all
// of them plus a configurable hard page cap.
//
// Extraction failures are non-fatal: a network or HTTP error truncates the
// loop and whatever was collected so far is returned, leaving the decision
// about a partial batch to the caller.
package ongsys
