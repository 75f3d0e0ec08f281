package domain

import "time"

// Snapshot is the exportable state of an engine.
//
// On import each field is applied only when present: a nil slice (missing or
// null in JSON) leaves the current value untouched, while an empty non-nil
// slice replaces it with nothing. Exports always carry non-nil slices.
type Snapshot struct {
	Athletes  []Athlete `json:"athletes"`
	Groups    []Group   `json:"groups"`
	Sessions  []Session `json:"sessions"`
	Records   []Record  `json:"records"`
	Timestamp time.Time `json:"timestamp"`
}
