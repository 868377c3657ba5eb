package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	kerrors "github.com/PolarWolf314/tc-secrets/internal/errors"
)

// Fetcher is the part of the store facade a Record needs to load itself.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (string, error)
}

// Record is a remote secret: a set of named fields, each holding ciphertext.
type Record struct {
	fields map[string]string
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{fields: make(map[string]string)}
}

// ParseRecord decodes a JSON object of string fields.
// A blank payload is an empty record.
func ParseRecord(payload string) (*Record, error) {
	record := NewRecord()
	if strings.TrimSpace(payload) == "" {
		return record, nil
	}

	if err := json.Unmarshal([]byte(payload), &record.fields); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrSecretFormat, err)
	}
	if record.fields == nil {
		// The payload was a JSON null.
		record.fields = make(map[string]string)
	}

	return record, nil
}

// LoadRecord fetches the secret id and decodes it.
func LoadRecord(ctx context.Context, store Fetcher, id string) (*Record, error) {
	payload, err := store.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	record, err := ParseRecord(payload)
	if err != nil {
		return nil, fmt.Errorf("secret %s: %w", id, err)
	}

	return record, nil
}

// Field returns the ciphertext stored under name.
func (r *Record) Field(name string) (string, error) {
	value, ok := r.fields[name]
	if !ok {
		return "", fmt.Errorf("%w: field '%s' not found", kerrors.ErrSecretFormat, name)
	}
	return value, nil
}

// SetField inserts or replaces the ciphertext stored under name.
func (r *Record) SetField(name, value string) {
	r.fields[name] = value
}

// FieldNames returns the field names in sorted order.
func (r *Record) FieldNames() []string {
	names := make([]string, 0, len(r.fields))
	for name := range r.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Serialize encodes the record back to the JSON object stored remotely.
func (r *Record) Serialize() (string, error) {
	data, err := json.Marshal(r.fields)
	if err != nil {
		return "", fmt.Errorf("%w: %v", kerrors.ErrSecretFormat, err)
	}
	return string(data), nil
}
