// Package utils provides type coercion helpers for untyped API payloads.
//
// Both remote systems exchange loosely typed JSON: numeric ids arrive as
// strings or floats depending on the endpoint, and empty values show up as
// "", "null" or missing keys. These helpers centralize the best-effort
// coercion rules so the per-entity normalizers stay declarative.
package utils
