// Package warehouse creates the destination Warehouses named by the
// cost-center to warehouse mapping file.
package warehouse
