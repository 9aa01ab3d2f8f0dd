// Package ledger keeps the estimates a user confirmed during one session.
package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record is one confirmed idler estimate. Records are values and are never
// changed after they are appended.
type Record struct {
	ID        uuid.UUID
	CreatedAt time.Time

	Company   string
	Material  string
	IdlerType string

	PipeOD        float64
	PipeThickness float64
	PipeLength    float64
	ShaftDia      float64
	ShaftLength   float64

	PipeWeight  float64
	ShaftWeight float64

	PipeCost         float64
	ShaftCost        float64
	BoughtOutCost    float64
	RubberRingCost   float64
	RubberFixingCost float64
	ConversionCost   float64
	BaseCost         float64
	Overhead         float64
	ProfitPercent    float64
	ProfitCost       float64
	FinalCost        float64

	Label      string
	LookupUsed bool
}

// Summary aggregates a ledger for display.
type Summary struct {
	Count     int
	FinalCost float64
}

// Ledger is an append-only list of records owned by one session.
type Ledger struct {
	mu      sync.RWMutex
	records []Record
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Append adds rec at the end of the ledger.
func (l *Ledger) Append(rec Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
}

// List returns the records in insertion order. The slice is a copy.
func (l *Ledger) List() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Totals summarizes the ledger.
func (l *Ledger) Totals() Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s := Summary{Count: len(l.records)}
	for _, r := range l.records {
		s.FinalCost += r.FinalCost
	}
	return s
}
