// Package product syncs ONGSYS products into ERPNext Item documents.
// Item codes come from the numeric source id, groups and units are
// created on demand, and the country of origin goes through a controlled
// vocabulary validated against the destination's Country list.
package product
