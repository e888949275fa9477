package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"tabwork/internal/frame"
)

// cellDoc is the typed JSON form of one cell. Encoding the value as a string
// keeps int64 cells from coming back as float64, which plain JSON numbers
// would do.
type cellDoc struct {
	T string `json:"t"` // n(ull) i(nt) f(loat) s(tring) b(ool) d(ate-time)
	V string `json:"v,omitempty"`
}

type colDoc struct {
	Name string `json:"name"`
	Kind int    `json:"kind"`
}

type frameDoc struct {
	Columns     []colDoc    `json:"columns"`
	Index       []string    `json:"index"`
	IndexColumn string      `json:"index_column,omitempty"`
	Rows        [][]cellDoc `json:"rows"`
}

func encodeCell(v any) cellDoc {
	switch x := v.(type) {
	case nil:
		return cellDoc{T: "n"}
	case int64:
		return cellDoc{T: "i", V: strconv.FormatInt(x, 10)}
	case float64:
		return cellDoc{T: "f", V: strconv.FormatFloat(x, 'g', -1, 64)}
	case string:
		return cellDoc{T: "s", V: x}
	case bool:
		return cellDoc{T: "b", V: strconv.FormatBool(x)}
	case time.Time:
		return cellDoc{T: "d", V: x.Format(time.RFC3339Nano)}
	default:
		return cellDoc{T: "s", V: fmt.Sprintf("%v", x)}
	}
}

func decodeCell(c cellDoc) (any, error) {
	switch c.T {
	case "n":
		return nil, nil
	case "i":
		return strconv.ParseInt(c.V, 10, 64)
	case "f":
		return strconv.ParseFloat(c.V, 64)
	case "s":
		return c.V, nil
	case "b":
		return strconv.ParseBool(c.V)
	case "d":
		return time.Parse(time.RFC3339Nano, c.V)
	default:
		return nil, fmt.Errorf("unknown cell tag %q", c.T)
	}
}

// EncodeFrame serializes a frame snapshot to JSON.
func EncodeFrame(f *frame.Frame) ([]byte, error) {
	doc := frameDoc{
		Index:       f.Labels(),
		IndexColumn: f.IndexColumn(),
	}
	for _, c := range f.Columns() {
		doc.Columns = append(doc.Columns, colDoc{Name: c.Name, Kind: int(c.Kind)})
	}
	for r := 0; r < f.NumRows(); r++ {
		row := make([]cellDoc, f.NumCols())
		for c := 0; c < f.NumCols(); c++ {
			row[c] = encodeCell(f.Cell(r, c))
		}
		doc.Rows = append(doc.Rows, row)
	}
	return json.Marshal(doc)
}

// DecodeFrame reverses EncodeFrame.
func DecodeFrame(data []byte) (*frame.Frame, error) {
	var doc frameDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	cols := make([]frame.Column, len(doc.Columns))
	for i, c := range doc.Columns {
		cols[i] = frame.Column{Name: c.Name, Kind: frame.Kind(c.Kind)}
	}
	rows := make([][]any, len(doc.Rows))
	for r, rowDoc := range doc.Rows {
		row := make([]any, len(rowDoc))
		for c, cd := range rowDoc {
			v, err := decodeCell(cd)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", r, c, err)
			}
			row[c] = v
		}
		rows[r] = row
	}
	return frame.Restore(cols, rows, doc.Index, doc.IndexColumn)
}

// settings round-trip: the stash carries arbitrary cells, so it gets the same
// typed treatment as frame rows.

type droppedColDoc struct {
	Name  string             `json:"name"`
	Kind  int                `json:"kind"`
	Pos   int                `json:"pos"`
	Cells map[string]cellDoc `json:"cells"`
}

type droppedRowDoc struct {
	Label string    `json:"label"`
	Names []string  `json:"names"`
	Cells []cellDoc `json:"cells"`
}

type settingsDoc struct {
	DroppedColumns []droppedColDoc `json:"dropped_columns,omitempty"`
	DroppedRows    []droppedRowDoc `json:"dropped_rows,omitempty"`
	IndexColumn    string          `json:"index_column,omitempty"`
}

// EncodeSettings serializes per-dataset settings (stash + index column).
func EncodeSettings(s Settings) ([]byte, error) {
	doc := settingsDoc{IndexColumn: s.IndexColumn}
	for _, dc := range s.DroppedColumns {
		cells := make(map[string]cellDoc, len(dc.Cells))
		for label, v := range dc.Cells {
			cells[label] = encodeCell(v)
		}
		doc.DroppedColumns = append(doc.DroppedColumns, droppedColDoc{
			Name:  dc.Col.Name,
			Kind:  int(dc.Col.Kind),
			Pos:   dc.Pos,
			Cells: cells,
		})
	}
	for _, dr := range s.DroppedRows {
		cells := make([]cellDoc, len(dr.Cells))
		for i, v := range dr.Cells {
			cells[i] = encodeCell(v)
		}
		doc.DroppedRows = append(doc.DroppedRows, droppedRowDoc{
			Label: dr.Label,
			Names: dr.Names,
			Cells: cells,
		})
	}
	return json.Marshal(doc)
}

// DecodeSettings reverses EncodeSettings.
func DecodeSettings(data []byte) (Settings, error) {
	var doc settingsDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	s := Settings{IndexColumn: doc.IndexColumn}
	for _, dc := range doc.DroppedColumns {
		cells := make(map[string]any, len(dc.Cells))
		for label, cd := range dc.Cells {
			v, err := decodeCell(cd)
			if err != nil {
				return Settings{}, fmt.Errorf("stash column %s: %w", dc.Name, err)
			}
			cells[label] = v
		}
		s.DroppedColumns = append(s.DroppedColumns, frame.DroppedColumn{
			Col:   frame.Column{Name: dc.Name, Kind: frame.Kind(dc.Kind)},
			Pos:   dc.Pos,
			Cells: cells,
		})
	}
	for _, dr := range doc.DroppedRows {
		cells := make([]any, len(dr.Cells))
		for i, cd := range dr.Cells {
			v, err := decodeCell(cd)
			if err != nil {
				return Settings{}, fmt.Errorf("stash row %s: %w", dr.Label, err)
			}
			cells[i] = v
		}
		s.DroppedRows = append(s.DroppedRows, frame.DroppedRow{
			Label: dr.Label,
			Names: dr.Names,
			Cells: cells,
		})
	}
	return s, nil
}
