// Package tripdata decodes the serialized trip detail blob stored per trip.
package tripdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/diagnosis/tourvisto-admin/internal/domain"
)

var ErrMalformed = errors.New("malformed trip detail")

// Parse decodes blob into a Trip. A nil or blank blob yields an empty Trip.
func Parse(blob *string) (domain.Trip, error) {
	if blob == nil || strings.TrimSpace(*blob) == "" {
		return domain.Trip{}, nil
	}

	var t domain.Trip
	if err := json.Unmarshal([]byte(*blob), &t); err != nil {
		return domain.Trip{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return t, nil
}

// FromRecord parses the record's blob and carries over the stored id and
// image URLs. ImageURLs is never nil.
func FromRecord(rec domain.TripRecord) (domain.Trip, error) {
	t, err := Parse(rec.TripDetail)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("trip %s: %w", rec.ID, err)
	}
	t.ID = rec.ID
	t.ImageURLs = rec.ImageURLs
	if t.ImageURLs == nil {
		t.ImageURLs = []string{}
	}
	return t, nil
}

// FromRecords parses every record, failing on the first malformed blob.
func FromRecords(recs []domain.TripRecord) ([]domain.Trip, error) {
	out := make([]domain.Trip, 0, len(recs))
	for _, rec := range recs {
		t, err := FromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
