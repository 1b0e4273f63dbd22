package handlers

import (
	"bytes"
	"encoding/json"

	apierrors "github.com/yukikurage/task-habit-api/internal/errors"
)

// patchBody is a partial update request. Keeping the raw values lets the
// handlers tell an absent field from an explicit null.
type patchBody map[string]json.RawMessage

func (p patchBody) isNull(key string) bool {
	value, ok := p[key]
	return ok && bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

// decode fills dst from the field when it is present and not null. Fields
// listed in notNull are rejected when sent as null.
func (p patchBody) decode(fields map[string]any, notNull ...string) error {
	details := map[string]string{}

	for _, key := range notNull {
		if p.isNull(key) {
			details[key] = "must not be null"
		}
	}

	for key, dst := range fields {
		value, ok := p[key]
		if !ok || p.isNull(key) {
			continue
		}
		if err := json.Unmarshal(value, dst); err != nil {
			details[key] = "has an invalid type"
		}
	}

	if len(details) > 0 {
		return apierrors.Validation("Invalid input", details)
	}
	return nil
}
