// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package pgimport

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// convertValue maps a pgx row value onto a type the graph serializer can
// encode.
func convertValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case []byte:
		if len(t) == 16 {
			return uuid.UUID(t).String()
		}
		return fmt.Sprintf("\\x%x", t)
	case [16]byte:
		return uuid.UUID(t).String()
	case time.Time:
		return t
	case pgtype.Numeric:
		if !t.Valid {
			return nil
		}
		f, err := t.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case netip.Prefix:
		return t.String()
	case netip.Addr:
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = convertValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = convertValue(e)
		}
		return out
	case string, bool, int16, int32, int64, float32, float64:
		return t
	case fmt.Stringer:
		return t.String()
	}
	return v
}
