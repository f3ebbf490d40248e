// Package source pulls product records from an upstream collaborator, either
// a MongoDB collection or a Kafka topic, and presents them to the pipeline as
// loosely-typed records.
package source

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoloeats/foodgraph/pkg/normalizers"
)

// Record is one decoded product document. Fields are optional and loosely
// typed; accessors tolerate the shapes the upstream data actually carries.
type Record map[string]any

// Provider streams records to a callback. A callback error aborts the stream
// and is returned.
type Provider interface {
	Each(ctx context.Context, fn func(ctx context.Context, rec Record) error) error
	Close(ctx context.Context) error
}

// String returns the trimmed string value of key. Missing keys, non-string
// values and blank strings report false.
func (r Record) String(key string) (string, bool) {
	s, ok := r[key].(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// FirstString returns the first key that holds a usable string value.
func (r Record) FirstString(keys ...string) (string, bool) {
	for _, key := range keys {
		if s, ok := r.String(key); ok {
			return s, true
		}
	}
	return "", false
}

// TagValues returns the lower-cased trimmed tags under key. The upstream data
// stores tag lists as a string list, a loosely-typed list, or a comma-joined
// string; all three shapes are accepted. Anything else yields no tags.
func (r Record) TagValues(key string) []string {
	var tags []string
	appendTag := func(v any) {
		if tag, ok := normalizers.CleanTag(v); ok {
			tags = append(tags, tag)
		}
	}

	switch v := r[key].(type) {
	case string:
		for _, part := range strings.Split(v, ",") {
			appendTag(part)
		}
	case []string:
		for _, part := range v {
			appendTag(part)
		}
	case []any:
		for _, part := range v {
			appendTag(part)
		}
	case primitive.A:
		for _, part := range v {
			appendTag(part)
		}
	}
	return tags
}

// DocumentID returns the record's upstream document id as a string. BSON
// object ids are rendered as hex.
func (r Record) DocumentID() (string, bool) {
	switch v := r["_id"].(type) {
	case primitive.ObjectID:
		return v.Hex(), true
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	default:
		return "", false
	}
}
