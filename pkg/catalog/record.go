package catalog

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/ccong2/austin-open-data/pkg/errors"
)

// Record is one flattened row of the catalog: a single published asset with
// its classification and usage counters.
//
// Optional fields are nil when the portal did not report them. Tags is never
// nil; an asset without tags carries an empty slice. Records are immutable
// once flattened.
type Record struct {
	Name               string    `json:"name"`
	Category           *string   `json:"category,omitempty"`
	Tags               []string  `json:"tags"`
	ResourceType       string    `json:"resource_type"`
	DownloadCount      *int64    `json:"download_count,omitempty"`
	PageviewsLastWeek  *int64    `json:"pageviews_last_week,omitempty"`
	PageviewsLastMonth *int64    `json:"pageviews_last_month,omitempty"`
	PageviewsTotal     *int64    `json:"pageviews_total,omitempty"`
	LastUpdated        time.Time `json:"last_updated,omitempty"`
}

// Flatten projects every catalog entry into a Record, preserving entry
// order. The output always has exactly one row per entry; missing nested
// fields become nil (or an empty tag slice), never skipped rows.
func Flatten(doc *Document) []Record {
	records := make([]Record, len(doc.results))
	for i, entry := range doc.results {
		records[i] = flattenEntry(entry)
	}
	return records
}

func flattenEntry(e resultEntry) Record {
	r := Record{
		Name:          e.Resource.Name,
		ResourceType:  e.Resource.Type,
		DownloadCount: e.Resource.DownloadCount,
		Tags:          []string{},
	}

	// An empty category string is reported by some portals instead of
	// omitting the field; both mean "uncategorized".
	if c := e.Classification.DomainCategory; c != nil && *c != "" {
		r.Category = c
	}
	if len(e.Classification.DomainTags) > 0 {
		r.Tags = append(r.Tags, e.Classification.DomainTags...)
	}
	if pv := e.Resource.PageViews; pv != nil {
		r.PageviewsLastWeek = pv.LastWeek
		r.PageviewsLastMonth = pv.LastMonth
		r.PageviewsTotal = pv.Total
	}
	if t, err := time.Parse(time.RFC3339, e.Resource.UpdatedAt); err == nil {
		r.LastUpdated = t
	}
	return r
}

// WriteRecords encodes records as indented JSON to w, so a fetched catalog
// can be re-analyzed offline.
func WriteRecords(records []Record, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode records")
	}
	return nil
}

// ReadRecords loads a record table previously written by [WriteRecords].
// Nil tag slices are normalized back to empty so the flattener's invariant
// holds for imported tables too.
func ReadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "records file not found: %s", path)
		}
		return nil, err
	}
	defer f.Close()

	var records []Record
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRecords, err, "decode records from %s", path)
	}
	for i := range records {
		if records[i].Tags == nil {
			records[i].Tags = []string{}
		}
	}
	return records, nil
}
