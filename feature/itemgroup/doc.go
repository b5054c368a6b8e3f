// Package itemgroup pre-creates the ERPNext Item Groups that source
// products reference, so the product sync never races its own
// dependencies.
package itemgroup
