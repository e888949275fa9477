package ingest

import (
	"strconv"
	"strings"

	"tabwork/internal/frame"
)

// inferKind picks the narrowest kind that every non-null cell in the column
// parses as, trying int, float, bool, time, then falling back to string.
func inferKind(cells []string, isNull func(string) bool) frame.Kind {
	kinds := []frame.Kind{frame.KindInt, frame.KindFloat, frame.KindBool, frame.KindTime}
	nonNull := 0
next:
	for _, k := range kinds {
		nonNull = 0
		for _, c := range cells {
			if isNull(c) {
				continue
			}
			nonNull++
			if !parses(c, k) {
				continue next
			}
		}
		if nonNull > 0 {
			return k
		}
		// all-null column: string keeps it maximally flexible
		return frame.KindString
	}
	return frame.KindString
}

func parses(s string, k frame.Kind) bool {
	s = strings.TrimSpace(s)
	switch k {
	case frame.KindInt:
		_, err := strconv.ParseInt(s, 10, 64)
		return err == nil
	case frame.KindFloat:
		_, err := strconv.ParseFloat(s, 64)
		return err == nil
	case frame.KindBool:
		// ParseBool accepts 1/0 which would shadow int columns; restrict to
		// word forms here.
		switch strings.ToLower(s) {
		case "true", "false":
			return true
		}
		return false
	case frame.KindTime:
		_, err := frame.ParseTime(s)
		return err == nil
	}
	return true
}

// typeCell converts raw text to a typed cell for the given kind. Inference
// has already guaranteed the parse succeeds for inferred columns; for
// infer_types=false everything stays a string.
func typeCell(s string, k frame.Kind, isNull func(string) bool) (any, error) {
	if isNull(s) {
		return nil, nil
	}
	t := strings.TrimSpace(s)
	switch k {
	case frame.KindInt:
		return strconv.ParseInt(t, 10, 64)
	case frame.KindFloat:
		return strconv.ParseFloat(t, 64)
	case frame.KindBool:
		return strings.EqualFold(t, "true"), nil
	case frame.KindTime:
		return frame.ParseTime(t)
	default:
		return s, nil
	}
}

// dedupeHeaders makes header names unique and non-empty the way repeated
// spreadsheet columns are usually disambiguated: a, a_2, a_3.
func dedupeHeaders(raw []string) []string {
	out := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = "column_" + strconv.Itoa(i+1)
		}
		name := h
		for n := 2; used[name]; n++ {
			name = h + "_" + strconv.Itoa(n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}
