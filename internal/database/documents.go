package database

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ErrInvalidPipeline is returned when a pipeline is not a JSON array of stage documents.
var ErrInvalidPipeline = errors.New("pipeline must be a JSON array of stage documents")

// ParseDocument parses a JSON object into an ordered document.
// Input is read as relaxed Extended JSON, so plain JSON is accepted as well as
// type wrappers such as {"$oid": "..."} and {"$date": "..."}.
func ParseDocument(raw string) (bson.D, error) {
	var doc bson.D
	if err := bson.UnmarshalExtJSON([]byte(raw), false, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON document: %w", err)
	}
	if doc == nil {
		doc = bson.D{}
	}
	return doc, nil
}

// ParseStructuredDocument converts an already decoded JSON object into an ordered
// document, applying the same Extended JSON rules as ParseDocument.
func ParseStructuredDocument(value map[string]any) (bson.D, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	return ParseDocument(string(raw))
}

// ParsePipeline parses a JSON array of stage documents.
func ParsePipeline(raw string) ([]bson.D, error) {
	var stages []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &stages); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, ErrInvalidPipeline
		}
		return nil, fmt.Errorf("invalid JSON pipeline: %w", err)
	}
	if stages == nil {
		return nil, ErrInvalidPipeline
	}

	pipeline := make([]bson.D, 0, len(stages))
	for i, stage := range stages {
		doc, err := ParseDocument(string(stage))
		if err != nil {
			return nil, fmt.Errorf("pipeline stage %d: %w", i, err)
		}
		pipeline = append(pipeline, doc)
	}
	return pipeline, nil
}

// FormatID renders an inserted identifier the way users expect to paste it back:
// ObjectIDs as their hex string, anything else with its default formatting.
func FormatID(id any) string {
	if oid, ok := id.(bson.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(id)
}

// FormatDocuments renders documents as a pretty-printed relaxed Extended JSON array.
func FormatDocuments(documents []bson.D) (string, error) {
	rendered := make([]json.RawMessage, 0, len(documents))
	for _, doc := range documents {
		raw, err := bson.MarshalExtJSON(doc, false, false)
		if err != nil {
			return "", fmt.Errorf("failed to format document as JSON: %w", err)
		}
		rendered = append(rendered, raw)
	}

	formatted, err := json.MarshalIndent(rendered, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format documents as JSON: %w", err)
	}
	return string(formatted), nil
}

// DocumentsToJSON converts documents to a JSON string
func (s *MongoService) DocumentsToJSON(documents []bson.D) (string, error) {
	formatted, err := FormatDocuments(documents)
	if err != nil {
		s.log.Error("Error in DocumentsToJSON", "error", err)
		return "", err
	}
	return formatted, nil
}
