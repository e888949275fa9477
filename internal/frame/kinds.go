package frame

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind is the logical type of a column. Cells are stored as any, holding
// int64, float64, string, bool, time.Time, or nil for a null.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a user-facing type name to a Kind. Accepts the aliases the
// conversion command documents (datetime, str, ...).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string", "str", "text":
		return KindString, nil
	case "int", "integer":
		return KindInt, nil
	case "float", "double", "number":
		return KindFloat, nil
	case "bool", "boolean":
		return KindBool, nil
	case "time", "datetime", "date", "timestamp":
		return KindTime, nil
	default:
		return KindString, fmt.Errorf("unknown column kind %q", s)
	}
}

// IsNumeric reports whether the kind participates in numeric aggregation.
func (k Kind) IsNumeric() bool {
	return k == KindInt || k == KindFloat
}

// timeLayouts are tried in order when parsing time cells from text.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
}

// ParseTime parses a textual timestamp using the supported layouts.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

// FormatCell renders a cell for display and filtering. Nulls render empty.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// asFloat extracts a float64 from a numeric or bool cell.
func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// checkCell validates that a cell value is storable under the given kind.
func checkCell(k Kind, v any) error {
	if v == nil {
		return nil
	}
	ok := false
	switch k {
	case KindString:
		_, ok = v.(string)
	case KindInt:
		_, ok = v.(int64)
	case KindFloat:
		_, ok = v.(float64)
	case KindBool:
		_, ok = v.(bool)
	case KindTime:
		_, ok = v.(time.Time)
	}
	if !ok {
		return fmt.Errorf("%w: %T under %s", ErrKindMismatch, v, k)
	}
	return nil
}

// compareCells orders two cells of the same kind. Nulls sort after everything
// regardless of direction, matching the sort command's nulls-last rule.
func compareCells(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return 1
	}
	if b == nil {
		return -1
	}
	switch x := a.(type) {
	case int64:
		if y, ok := asFloat(b); ok {
			return compareFloats(float64(x), y)
		}
	case float64:
		if y, ok := asFloat(b); ok {
			return compareFloats(x, y)
		}
	case string:
		y := b.(string)
		return strings.Compare(x, y)
	case bool:
		y := b.(bool)
		if x == y {
			return 0
		}
		if !x {
			return -1
		}
		return 1
	case time.Time:
		y := b.(time.Time)
		switch {
		case x.Before(y):
			return -1
		case x.After(y):
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(FormatCell(a), FormatCell(b))
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// cellsEqual compares two cells for join/duplicate purposes. Int and float
// cells holding the same number compare equal.
func cellsEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
		return false
	}
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	return a == b
}
