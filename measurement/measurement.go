// Package measurement defines the aggregate record that is published once per
// publish window.
package measurement

import (
	"fmt"
	"sort"
	"time"
)

// Field names as they appear in the time-series database.
const (
	FieldActivityTot = "ActivityTot"
	FieldTemp        = "Temp"
)

// Record is the summary of one publish window: the total above-threshold
// activity across all three axes and the temperature read at publish time.
// Records are values; nothing in this package mutates one after NewRecord.
type Record struct {
	Timestamp   time.Time `json:"time"`
	ActivityTot float64   `json:"ActivityTot"`
	Temp        float64   `json:"Temp"`
}

// NewRecord returns a Record whose timestamp is t in UTC truncated to whole seconds.
// Temp is in degrees Celsius.
func NewRecord(t time.Time, activityTot, temp float64) Record {
	return Record{
		Timestamp:   t.UTC().Truncate(time.Second),
		ActivityTot: activityTot,
		Temp:        temp,
	}
}

// ValueMap returns a map of field name to value.
func (r Record) ValueMap() map[string]float64 {
	return map[string]float64{
		FieldActivityTot: r.ActivityTot,
		FieldTemp:        r.Temp,
	}
}

// FieldNames returns the names of the fields in r in a stable order.
func (r Record) FieldNames() []string {
	names := make([]string, 0, 2)
	for k := range r.ValueMap() {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (r Record) String() string {
	return fmt.Sprintf("%s activity=%.1f %.3f°C", r.Timestamp.Format(time.RFC3339), r.ActivityTot, r.Temp)
}
