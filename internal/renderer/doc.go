// Package renderer draws engine snapshots onto a cell backend.
//
// Content geometry is measured in abstract units. A Viewport maps units to
// cells: each cell covers CellW by CellH units and the content area starts
// Padding units in from the top-left corner. The last row is reserved for
// the status line.
package renderer
