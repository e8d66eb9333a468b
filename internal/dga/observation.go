package dga

import (
	"fmt"
	"sort"
	"time"
)

// Observation is one sampled row for a unit. Observations are produced by
// the loader or the resampler and are never mutated afterwards.
type Observation struct {
	Timestamp time.Time
	UnitID    string
	Ref       Value
	Gases     map[string]Value
}

// Gas returns the reading for the named gas, missing if absent.
func (o Observation) Gas(name string) Value {
	return o.Gases[name]
}

// Frame is a read-only table of observations. Both raw datasets and
// resampled tables satisfy it.
type Frame interface {
	// Gases returns the gas columns present in the table schema.
	Gases() []string
	// Observations returns the rows in table order.
	Observations() []Observation
}

// Dataset is a raw, loaded table.
type Dataset struct {
	GasColumns []string
	Rows       []Observation
}

// NewDataset wraps loaded rows with the gas columns found in the input.
func NewDataset(gasColumns []string, rows []Observation) *Dataset {
	return &Dataset{GasColumns: gasColumns, Rows: rows}
}

func (d *Dataset) Gases() []string             { return d.GasColumns }
func (d *Dataset) Observations() []Observation { return d.Rows }

// UnitIDs returns the distinct unit ids of a frame in first-seen order.
func UnitIDs(f Frame) []string {
	order, _ := partition(f.Observations())
	return order
}

// partition groups rows by unit, keeping first-seen unit order and input row
// order within each unit.
func partition(rows []Observation) ([]string, map[string][]Observation) {
	var order []string
	byUnit := make(map[string][]Observation)
	for _, o := range rows {
		if _, ok := byUnit[o.UnitID]; !ok {
			order = append(order, o.UnitID)
		}
		byUnit[o.UnitID] = append(byUnit[o.UnitID], o)
	}
	return order, byUnit
}

// chronological returns a copy of rows sorted ascending by timestamp. Rows
// sharing a timestamp keep their input order.
func chronological(rows []Observation) []Observation {
	out := make([]Observation, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// checkStructure rejects rows without the required timestamp or unit id.
func checkStructure(rows []Observation) error {
	for i, o := range rows {
		if o.Timestamp.IsZero() {
			return &DataError{Column: DateColumn, Reason: fmt.Sprintf("row %d has no timestamp", i)}
		}
		if o.UnitID == "" {
			return &DataError{Column: UnitColumn, Reason: fmt.Sprintf("row %d has no unit id", i)}
		}
	}
	return nil
}
