package stats

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Markdown renders the description as a GitHub-style pipe table, one column
// per dataset column and one row per statistic. The CLI feeds this through
// glamour for terminal display.
func (d *Description) Markdown(title string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString("## " + title + "\n\n")
	}

	rows := d.StatNames()

	sb.WriteString("| stat |")
	for _, c := range d.Columns {
		sb.WriteString(" " + c.Name + " |")
	}
	sb.WriteString("\n|---|")
	for range d.Columns {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")

	for _, stat := range rows {
		sb.WriteString("| " + stat + " |")
		for _, c := range d.Columns {
			sb.WriteString(" " + d.Stat(c, stat) + " |")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// StatNames lists the statistic row labels in display order.
func (d *Description) StatNames() []string {
	rows := []string{"count", "mean", "std", "min"}
	for _, p := range d.Percentiles {
		rows = append(rows, percentLabel(p))
	}
	return append(rows, "max", "unique", "top", "freq")
}

func percentLabel(p float64) string {
	return strconv.FormatFloat(p*100, 'g', -1, 64) + "%"
}

// Stat formats one statistic for one column, empty when it does not apply.
func (d *Description) Stat(c ColumnSummary, stat string) string {
	if c.Numeric {
		switch stat {
		case "count":
			return strconv.Itoa(c.Count)
		case "mean":
			return formatStat(c.Mean)
		case "std":
			return formatStat(c.Std)
		case "min":
			return formatStat(c.Min)
		case "max":
			return formatStat(c.Max)
		case "unique", "top", "freq":
			return ""
		default:
			for i, p := range d.Percentiles {
				if percentLabel(p) == stat {
					return formatStat(c.Percentiles[i])
				}
			}
			return ""
		}
	}
	switch stat {
	case "count":
		return strconv.Itoa(c.Count)
	case "unique":
		return strconv.Itoa(c.Unique)
	case "top":
		return c.Top
	case "freq":
		return strconv.Itoa(c.Freq)
	default:
		return ""
	}
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.6g", v)
}
