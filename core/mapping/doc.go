// Package mapping loads the auxiliary cost-center to warehouse table.
//
// The source system has no warehouse concept, so an operator-maintained
// file maps each cost-center code to the warehouse that receives its
// stock entries. The file is a semicolon-separated ISO8859-1 export; the
// derived cost-center docname in the destination is "<code> - <warehouse>".
package mapping
