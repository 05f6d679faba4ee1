package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/fernheilpraxis/clinic-api/entities"
	"github.com/fernheilpraxis/clinic-api/logging"
	"github.com/fernheilpraxis/clinic-api/metrics"
	"github.com/fernheilpraxis/clinic-api/store"
)

// Catalog loads remedies from the document store into the snapshot container
// and answers searches against it.
type Catalog struct {
	store     store.DocumentStore
	container *Container
}

// New creates a catalog over the given store with an empty snapshot.
func New(st store.DocumentStore) *Catalog {
	return &Catalog{store: st, container: NewContainer()}
}

// Refresh fetches the full recipes collection and swaps it in, ordered by
// name with a case-insensitive German collation (the practice's labels mix
// German and English). On failure the previous snapshot stays in place.
func (c *Catalog) Refresh(ctx context.Context) error {
	if !c.container.BeginUpdate() {
		logging.Info("Catalog refresh already in progress, skipping")
		return nil
	}
	defer c.container.EndUpdate()

	start := time.Now()

	docs, err := c.store.List(ctx, store.RecipesPath())
	if err != nil {
		metrics.CatalogRefreshes.WithLabelValues("error").Inc()
		return fmt.Errorf("catalog refresh: %w", err)
	}

	remedies := make([]entities.Remedy, 0, len(docs))
	remedyMap := make(map[string]entities.Remedy, len(docs))

	for _, doc := range docs {
		remedy := remedyFromFields(doc.ID, doc.Fields)
		remedies = append(remedies, remedy)
		remedyMap[remedy.ID] = remedy
	}

	col := collate.New(language.German, collate.IgnoreCase)
	sort.SliceStable(remedies, func(i, j int) bool {
		return col.CompareString(remedies[i].Name, remedies[j].Name) < 0
	})

	c.container.Swap(remedies, remedyMap)

	metrics.CatalogRefreshes.WithLabelValues("ok").Inc()
	logging.Info("Catalog refreshed",
		"remedy_count", len(remedies),
		"duration", time.Since(start).String())

	return nil
}

// Remedies returns the full ordered snapshot.
func (c *Catalog) Remedies() []entities.Remedy {
	return c.container.Remedies()
}

// Remedy looks a remedy up by its store ID.
func (c *Catalog) Remedy(id string) (entities.Remedy, bool) {
	remedy, ok := c.container.RemedyMap()[id]
	return remedy, ok
}

// Search returns the remedies whose name contains term, case-insensitively,
// preserving the snapshot's alphabetical order. It never mutates the
// snapshot. An empty term returns the whole catalog.
func (c *Catalog) Search(term string) []entities.Remedy {
	remedies := c.container.Remedies()
	if term == "" {
		return remedies
	}

	lowered := strings.ToLower(term)
	results := make([]entities.Remedy, 0)
	for _, remedy := range remedies {
		if strings.Contains(strings.ToLower(remedy.Name), lowered) {
			results = append(results, remedy)
		}
	}
	return results
}

// LastUpdated returns the time of the last successful refresh.
func (c *Catalog) LastUpdated() time.Time {
	return c.container.LastUpdated()
}

// IsUpdating reports whether a refresh is in flight.
func (c *Catalog) IsUpdating() bool {
	return c.container.IsUpdating()
}

// Size returns the number of remedies in the snapshot.
func (c *Catalog) Size() int {
	return len(c.container.Remedies())
}

// PasteBlock flattens a remedy into the text block inserted into a draft:
// name, source and instructions each on their own line, notes appended only
// when present. Data imported from the legacy store can hold the literal
// string "undefined" in any field, so every field is scrubbed first.
func PasteBlock(remedy entities.Remedy) string {
	lines := make([]string, 0, 4)

	for _, field := range []string{remedy.Name, remedy.Source, remedy.Instructions, remedy.Notes} {
		cleaned := strings.TrimSpace(scrubUndefined(field))
		if cleaned == "" {
			continue
		}
		lines = append(lines, cleaned)
	}
	return strings.Join(lines, "\n")
}

func scrubUndefined(s string) string {
	return strings.ReplaceAll(s, "undefined", "")
}

// remedyFromFields decodes a schemaless store document, tolerating missing
// or mistyped fields.
func remedyFromFields(id string, fields map[string]any) entities.Remedy {
	return entities.Remedy{
		ID:           id,
		Name:         stringField(fields, "name"),
		Source:       stringField(fields, "source"),
		Instructions: stringField(fields, "instructions"),
		Notes:        stringField(fields, "notes"),
	}
}

func stringField(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}
