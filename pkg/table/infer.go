package table

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var numre = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`)

// InferKindFromStrings picks a column kind from sampled text cells.
// Empty cells are ignored. Numbers mixed with text or bools yield KindAny.
func InferKindFromStrings(vals []string) Kind {
	num, integer, boolean, str := 0, 0, 0, 0
	for _, raw := range vals {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		if numre.MatchString(v) {
			num++
			if !strings.ContainsAny(v, ".eE") {
				integer++
			}
			continue
		}
		lv := strings.ToLower(v)
		if lv == "true" || lv == "false" {
			boolean++
			continue
		}
		str++
	}
	switch {
	case boolean > 0 && num == 0 && str == 0:
		return KindBool
	case num > 0 && str == 0 && boolean == 0:
		if integer == num {
			return KindInt
		}
		return KindFloat
	case num > 0:
		return KindAny
	default:
		return KindString
	}
}

// InferKindFromValues picks a column kind from decoded values (JSON, Parquet,
// in-memory records). Mixed strings and numbers yield KindAny.
func InferKindFromValues(vals []any) Kind {
	nFloat, nInt, nUint, nBool, nStr, nTime, nOther := 0, 0, 0, 0, 0, 0, 0
	for _, v := range vals {
		switch t := v.(type) {
		case nil:
			continue
		case float64:
			if math.IsNaN(t) {
				continue
			}
			nFloat++
		case float32:
			nFloat++
		case int, int8, int16, int32, int64:
			nInt++
		case uint, uint8, uint16, uint32, uint64:
			nUint++
		case bool:
			nBool++
		case string:
			nStr++
		case time.Time:
			nTime++
		default:
			nOther++
		}
	}
	nNum := nFloat + nInt + nUint
	switch {
	case nOther > 0:
		return KindAny
	case nStr > 0 && nNum+nBool+nTime == 0:
		return KindString
	case nTime > 0 && nNum+nBool+nStr == 0:
		return KindTime
	case nBool > 0 && nNum+nStr+nTime == 0:
		return KindBool
	case nStr+nTime+nBool > 0:
		return KindAny
	case nFloat > 0:
		return KindFloat
	case nUint > 0 && nInt == 0:
		return KindUint
	case nNum > 0:
		return KindInt
	default:
		// all null
		return KindFloat
	}
}

// ParseCell converts a trimmed text cell to the Go value for kind k.
// ok is false for empty or unparsable cells. KindAny keeps numbers as int64
// or float64 and anything else as text.
func ParseCell(k Kind, s string) (any, bool) {
	if s == "" {
		return nil, false
	}
	switch k {
	case KindFloat:
		x, err := strconv.ParseFloat(s, 64)
		return x, err == nil
	case KindInt:
		x, err := strconv.ParseInt(s, 10, 64)
		return x, err == nil
	case KindUint:
		x, err := strconv.ParseUint(s, 10, 64)
		return x, err == nil
	case KindBool:
		x, err := strconv.ParseBool(strings.ToLower(s))
		return x, err == nil
	case KindTime:
		x, err := time.Parse(time.RFC3339, s)
		return x, err == nil
	case KindAny:
		if numre.MatchString(s) {
			if x, err := strconv.ParseInt(s, 10, 64); err == nil {
				return x, true
			}
			if x, err := strconv.ParseFloat(s, 64); err == nil {
				return x, true
			}
		}
		return s, true
	default:
		return s, true
	}
}
