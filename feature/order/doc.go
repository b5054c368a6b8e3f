// Package order imports finalized ONGSYS purchase orders as submitted
// Material Receipt Stock Entries. Each entry carries the source order id
// in custom_id_ongsys, which doubles as the duplicate guard, and every
// line is routed to a warehouse through the cost-center mapping file.
package order
