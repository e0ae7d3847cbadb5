package table

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// ToFloat converts numeric and bool values to float64.
func ToFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// IsReal reports whether v is a real number. Bools count as 0 and 1.
func IsReal(v any) bool {
	_, ok := ToFloat(v)
	return ok
}

// IsNaN reports whether v is a floating point NaN.
func IsNaN(v any) bool {
	switch t := v.(type) {
	case float64:
		return math.IsNaN(t)
	case float32:
		return math.IsNaN(float64(t))
	}
	return false
}

// IsMissing reports whether v matches the missing-value sentinel. A NaN
// sentinel matches any NaN; numeric sentinels compare by value.
func IsMissing(v, sentinel any) bool {
	if IsNaN(sentinel) {
		return IsNaN(v)
	}
	switch s := sentinel.(type) {
	case nil:
		return v == nil
	case string:
		vs, ok := v.(string)
		return ok && vs == s
	case bool:
		vb, ok := v.(bool)
		return ok && vb == s
	}
	if sf, ok := ToFloat(sentinel); ok {
		if _, isBool := v.(bool); isBool {
			return false
		}
		vf, ok := ToFloat(v)
		return ok && vf == sf
	}
	return false
}

// IsZero reports whether v is a numeric zero.
func IsZero(v any) bool {
	if _, ok := v.(bool); ok {
		return false
	}
	f, ok := ToFloat(v)
	return ok && f == 0
}

// Less orders values for tie-breaking: numbers, then strings, then times.
// NaN sorts after every other number.
func Less(a, b any) bool {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra < rb
	}
	switch ra {
	case 0:
		fa, _ := ToFloat(a)
		fb, _ := ToFloat(b)
		if math.IsNaN(fa) {
			return false
		}
		return math.IsNaN(fb) || fa < fb
	case 1:
		return a.(string) < b.(string)
	case 2:
		return a.(time.Time).Before(b.(time.Time))
	}
	return FormatValue(a) < FormatValue(b)
}

func rank(v any) int {
	if _, ok := ToFloat(v); ok {
		return 0
	}
	switch v.(type) {
	case string:
		return 1
	case time.Time:
		return 2
	}
	return 3
}

// FormatValue renders a cell the way the writers emit it.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case uint64:
		return strconv.FormatUint(t, 10)
	case time.Time:
		return t.Format(time.RFC3339)
	}
	if f, ok := ToFloat(v); ok {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}
