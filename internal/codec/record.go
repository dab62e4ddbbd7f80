// Package codec encodes batches as JSON records for the journal and redis sinks.
package codec

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/bft-labs/bulk/internal/domain"
)

// Record is the JSON form of a batch.
type Record struct {
	ID        string   `json:"id"`
	Seq       uint64   `json:"seq"`
	Timestamp int64    `json:"timestamp"`
	Commands  []string `json:"commands"`
}

// NewRecord converts a batch to a record with a fresh random id.
func NewRecord(b domain.Batch) Record {
	return Record{
		ID:        uuid.NewString(),
		Seq:       b.Seq(),
		Timestamp: b.Timestamp(),
		Commands:  b.Commands(),
	}
}

// Encode marshals the batch as a single-line JSON record.
func Encode(b domain.Batch) ([]byte, error) {
	data, err := json.Marshal(NewRecord(b))
	if err != nil {
		return nil, fmt.Errorf("encode batch %d: %w", b.Seq(), err)
	}
	return data, nil
}

// Decode parses a record produced by Encode.
func Decode(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	return r, nil
}
