// Package catalog holds the remedy catalog: a snapshot of the recipes
// collection with case-insensitive substring search and the paste-block
// formatting used by the draft composer. The snapshot is swapped atomically
// so searches never see a half-loaded catalog.
package catalog

import (
	"sync/atomic"
	"time"

	"github.com/fernheilpraxis/clinic-api/entities"
	"github.com/fernheilpraxis/clinic-api/logging"
)

// Container stores the catalog snapshot behind atomic pointers.
type Container struct {
	remedies    atomic.Value // []entities.Remedy, ordered by name
	remedyMap   atomic.Value // map[string]entities.Remedy
	lastUpdated atomic.Value // time.Time
	updating    atomic.Bool
}

// NewContainer creates a container with an empty snapshot.
func NewContainer() *Container {
	c := &Container{}
	c.remedies.Store(make([]entities.Remedy, 0))
	c.remedyMap.Store(make(map[string]entities.Remedy))
	c.lastUpdated.Store(time.Time{})
	return c
}

// Remedies returns the current ordered snapshot.
func (c *Container) Remedies() []entities.Remedy {
	if v := c.remedies.Load(); v != nil {
		if remedies, ok := v.([]entities.Remedy); ok {
			return remedies
		}
	}

	logging.Warn("Remedy snapshot is empty or invalid")
	return []entities.Remedy{}
}

// RemedyMap returns the current ID lookup map.
func (c *Container) RemedyMap() map[string]entities.Remedy {
	if v := c.remedyMap.Load(); v != nil {
		if remedyMap, ok := v.(map[string]entities.Remedy); ok {
			return remedyMap
		}
	}

	logging.Warn("Remedy map is empty or invalid")
	return make(map[string]entities.Remedy)
}

// LastUpdated returns the time of the last successful snapshot swap.
func (c *Container) LastUpdated() time.Time {
	if v := c.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}
	return time.Time{}
}

// IsUpdating reports whether a refresh is in flight.
func (c *Container) IsUpdating() bool {
	return c.updating.Load()
}

// BeginUpdate marks a refresh as started; returns false when one is already
// in flight.
func (c *Container) BeginUpdate() bool {
	return c.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the in-flight refresh as finished.
func (c *Container) EndUpdate() {
	c.updating.Store(false)
}

// Swap atomically replaces the snapshot.
func (c *Container) Swap(remedies []entities.Remedy, remedyMap map[string]entities.Remedy) {
	c.remedies.Store(remedies)
	c.remedyMap.Store(remedyMap)
	c.lastUpdated.Store(time.Now())
}
