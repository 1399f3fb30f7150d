// Package grid implements per-player widget layouts for the instruction game.
//
// A Grid is a rectangular occupancy matrix plus an ordered list of typed
// widgets (buttons, switches, sliders, circular sliders, buttons sliders and
// action menus). Grids are built procedurally by Generate: cells are scanned
// in row-major order and each empty cell seeds a randomly shaped block that
// is then populated with a widget appropriate for that shape.
//
// The generator is pure: it performs no I/O and schedules no timers. Widget
// names come from an externally supplied NameSource; when the source runs
// out of unique names, generation stops early and the caller receives the
// partial grid that was placed so far.
package grid
