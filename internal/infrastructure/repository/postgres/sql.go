package postgres

import (
	"database/sql"
	"fmt"

	"github.com/bytedance/sonic"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

func optionalString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func marshalPayload(doc any) (string, error) {
	payload, err := sonic.MarshalString(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document payload: %w", err)
	}
	return payload, nil
}

func unmarshalPayload[T any](payload string) (T, error) {
	var doc T
	if err := sonic.UnmarshalString(payload, &doc); err != nil {
		return doc, fmt.Errorf("unmarshal document payload: %w", err)
	}
	return doc, nil
}
