// Package costcenter builds the destination Cost Center tree from the
// cost-center to warehouse mapping file.
package costcenter
