package db

import "strconv"

// Typed accessors for Row values. The pq driver hands back int64, float64,
// bool, string or []byte depending on the column; these helpers absorb that
// variance so repositories stay free of type switches.

// String returns the column as a string, "" when absent or NULL.
func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

// Int64 returns the column as an int64, 0 when absent or NULL.
func (r Row) Int64(col string) int64 {
	switch v := r[col].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case []byte:
		n, _ := strconv.ParseInt(string(v), 10, 64)
		return n
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}

// Int returns the column as an int, 0 when absent or NULL.
func (r Row) Int(col string) int {
	return int(r.Int64(col))
}

// Float64 returns the column as a float64, 0 when absent or NULL.
func (r Row) Float64(col string) float64 {
	switch v := r[col].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case []byte:
		f, _ := strconv.ParseFloat(string(v), 64)
		return f
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}

// Bool returns the column as a bool, false when absent or NULL.
func (r Row) Bool(col string) bool {
	switch v := r[col].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	default:
		return false
	}
}

// Has reports whether the column is present and non-NULL.
func (r Row) Has(col string) bool {
	v, ok := r[col]
	return ok && v != nil
}
