// Package config centralizes application configuration loading.
//
// Configuration is read from environment variables, optionally seeded
// from a .env file, with defaults declared as struct tags on the
// per-package Config types. Keys nest with underscores, for example
// ONGSYS_BASE_URL maps to ongsys.base_url.
package config
