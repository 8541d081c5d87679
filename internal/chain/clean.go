package chain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Clean filters rows down to the canonical column set, coerces each field to
// its JSON-safe representation, and stamps every record with the expiration
// date it belongs to. Malformed field values degrade to null (or false for
// booleans) instead of failing the row: partial upstream data must never fail
// the whole request. Output order matches input order.
func Clean(rows []Row, expirationDate string) []Record {
	records := make([]Record, 0, len(rows))

	for _, row := range rows {
		record := Record{"expirationDate": expirationDate}

		for _, col := range canonicalColumns {
			raw, ok := row[col]
			if !ok {
				continue
			}

			switch col {
			case "contractSymbol":
				record[col] = coerceString(raw)
			case "inTheMoney":
				record[col] = coerceBool(raw)
			case "volume", "openInterest":
				record[col] = coerceInt(raw)
			case "lastTradeDate":
				record[col] = coerceTimestamp(raw)
			default:
				record[col] = SafeFloat(raw)
			}
		}

		records = append(records, record)
	}

	return records
}

// SafeFloat converts a raw provider value into a finite *float64, or nil for
// null, NaN, ±Inf, and the provider's N/A string sentinels. This is the only
// path by which numeric fields reach the response.
func SafeFloat(value any) *float64 {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case float64:
		return finiteFloat(v)
	case float32:
		return finiteFloat(float64(v))
	case int:
		return finiteFloat(float64(v))
	case int32:
		return finiteFloat(float64(v))
	case int64:
		return finiteFloat(float64(v))
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil
		}
		return finiteFloat(parsed)
	case string:
		trimmed := strings.TrimSpace(v)
		if isNASentinel(trimmed) {
			return nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil
		}
		return finiteFloat(parsed)
	default:
		return nil
	}
}

func finiteFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func isNASentinel(v string) bool {
	switch strings.ToLower(v) {
	case "", "n/a", "na", "nan", "null", "none", "-":
		return true
	}
	return false
}

func coerceString(value any) any {
	if value == nil {
		return nil
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

func coerceBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && parsed
	case float64:
		return v != 0 && !math.IsNaN(v)
	case int:
		return v != 0
	default:
		return false
	}
}

func coerceInt(value any) *int64 {
	switch v := value.(type) {
	case int:
		n := int64(v)
		return &n
	case int64:
		return &v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return nil
		}
		n := int64(v)
		return &n
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return nil
		}
		return &n
	case string:
		trimmed := strings.TrimSpace(v)
		if isNASentinel(trimmed) {
			return nil
		}
		n, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return nil
		}
		return &n
	default:
		return nil
	}
}

// timestampLayouts are tried in order when the provider sends a textual
// trade timestamp.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func coerceTimestamp(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return time.Unix(int64(v), 0).UTC().Format(time.RFC3339)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return fmt.Sprint(value)
		}
		return time.Unix(n, 0).UTC().Format(time.RFC3339)
	case string:
		trimmed := strings.TrimSpace(v)
		if isNASentinel(trimmed) {
			return nil
		}
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, trimmed); err == nil {
				return ts.UTC().Format(time.RFC3339)
			}
		}
		return v
	default:
		return fmt.Sprint(value)
	}
}
