package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToInt64 converts a scanned column value to int64. Drivers hand back ids as
// native integers, floats, or textual bytes depending on the dialect.
func ToInt64(val any) (int64, bool) {
	switch v := val.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case int16:
		return int64(v), true
	case int8:
		return int64(v), true
	case uint:
		return uintToInt64(uint64(v))
	case uint64:
		return uintToInt64(v)
	case uint32:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint8:
		return int64(v), true
	case float64:
		return floatToInt64(v)
	case float32:
		return floatToInt64(float64(v))
	case string:
		return parseInt64(v)
	case []byte:
		return parseInt64(string(v))
	default:
		return 0, false
	}
}

// ToUserID formats a scanned id column as a roster user id. Zero, negative
// and unparseable values are rejected.
func ToUserID(val any) (string, bool) {
	id, ok := ToInt64(val)
	if !ok || id <= 0 {
		return "", false
	}
	return strconv.FormatInt(id, 10), true
}

// ToString converts a scanned column value to string. NULL becomes "".
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func parseInt64(s string) (int64, bool) {
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return i, err == nil
}

func uintToInt64(v uint64) (int64, bool) {
	if v > math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}

func floatToInt64(v float64) (int64, bool) {
	if v != math.Trunc(v) || v >= math.MaxInt64 || v < math.MinInt64 {
		return 0, false
	}
	return int64(v), true
}
