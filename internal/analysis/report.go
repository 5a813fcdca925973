package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/dpputility/internal/dataset"
)

// Options controls the profile of a prepared table.
type Options struct {
	// Name labels the report, typically the source file.
	Name string
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
	// Outlier detection via robust Z-score (MAD). If Outliers is true, counts |z|>threshold.
	Outliers         bool
	OutlierThreshold float64
}

// DefaultOptions returns reasonable defaults for a dataset profile.
func DefaultOptions() Options {
	return Options{SampleRows: 5, Outliers: true, OutlierThreshold: 3.5}
}

// Report is a markdown-friendly profile of a prepared table.
type Report struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Samples  [][]string
	Warnings []string
}

// ColumnSummary captures kind and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|ordinal|categorical
	NonNull int
	Missing int
	Unique  int
	// Numeric and ordinal stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Outliers (robust Z via MAD)
	OutliersCount    int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64
	// Categorical top values
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// Summarize profiles every column of t.
func Summarize(t *dataset.Table, opt Options) *Report {
	rep := &Report{Name: opt.Name, Rows: t.NumRows(), Warnings: t.Warnings()}
	sampleRows := opt.SampleRows
	if sampleRows <= 0 {
		sampleRows = 5
	}
	names := t.Columns()
	for row := 0; row < t.NumRows() && row < sampleRows; row++ {
		sample := make([]string, len(names))
		for i, name := range names {
			c, _ := t.Column(name)
			sample[i] = formatCell(c, row)
		}
		rep.Samples = append(rep.Samples, sample)
	}
	for _, name := range names {
		c, _ := t.Column(name)
		rep.Cols = append(rep.Cols, summarizeColumn(c, opt))
	}
	return rep
}

func summarizeColumn(c *dataset.Column, opt Options) ColumnSummary {
	s := ColumnSummary{Name: c.Name, Kind: c.Kind.String()}
	if c.Kind == dataset.KindCategorical {
		cats := map[string]int{}
		for i := 0; i < c.Len(); i++ {
			v := c.Text(i)
			if v == "" {
				s.Missing++
				continue
			}
			s.NonNull++
			cats[v]++
		}
		tops := make([]CategoryCount, 0, len(cats))
		for k, v := range cats {
			tops = append(tops, CategoryCount{Value: k, Count: v})
		}
		sort.Slice(tops, func(i, j int) bool {
			if tops[i].Count == tops[j].Count {
				return tops[i].Value < tops[j].Value
			}
			return tops[i].Count > tops[j].Count
		})
		if len(tops) > 8 {
			tops = tops[:8]
		}
		s.TopValues = tops
		s.Unique = len(cats)
		return s
	}

	// Welford over the present values.
	var n int
	var mean, m2 float64
	minV, maxV := math.Inf(1), math.Inf(-1)
	vals := make([]float64, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		x, ok := numericCell(c, i)
		if !ok {
			s.Missing++
			continue
		}
		s.NonNull++
		n++
		if x < minV {
			minV = x
		}
		if x > maxV {
			maxV = x
		}
		delta := x - mean
		mean += delta / float64(n)
		m2 += delta * (x - mean)
		vals = append(vals, x)
	}
	if n == 0 {
		return s
	}
	s.Min, s.Max, s.Mean = minV, maxV, mean
	if n > 1 {
		s.Std = math.Sqrt(m2 / float64(n-1))
	}
	if opt.Outliers && c.Kind == dataset.KindNumeric && len(vals) >= 8 {
		thr := opt.OutlierThreshold
		if thr <= 0 {
			thr = 3.5
		}
		median, mad := medianMAD(vals)
		var cnt int
		maxAbsZ := 0.0
		if mad > 0 {
			for _, v := range vals {
				az := math.Abs(0.6745 * (v - median) / mad)
				if az > thr {
					cnt++
				}
				if az > maxAbsZ {
					maxAbsZ = az
				}
			}
		}
		s.OutliersCount = cnt
		s.OutliersMaxAbsZ = maxAbsZ
		s.OutlierThreshold = thr
	}
	return s
}

func numericCell(c *dataset.Column, i int) (float64, bool) {
	if c.Kind == dataset.KindOrdinal {
		v, ok := c.Ordinal(i)
		return float64(v), ok
	}
	x := c.Float(i)
	return x, !math.IsNaN(x)
}

func formatCell(c *dataset.Column, i int) string {
	switch c.Kind {
	case dataset.KindCategorical:
		return c.Text(i)
	case dataset.KindOrdinal:
		if v, ok := c.Ordinal(i); ok {
			return fmt.Sprintf("%d", v)
		}
		return ""
	default:
		x := c.Float(i)
		if math.IsNaN(x) {
			return ""
		}
		return fmt.Sprintf("%g", x)
	}
}

// Markdown renders a compact report suitable for notebooks or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", c.Name, c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case "numeric", "ordinal":
			if c.NonNull == 0 {
				break
			}
			b.WriteString(fmt.Sprintf(" - min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			if c.OutlierThreshold > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold))
				if c.OutliersMaxAbsZ > 0 {
					b.WriteString(fmt.Sprintf(" (max |z|≈%.2f)", c.OutliersMaxAbsZ))
				}
			}
		case "categorical":
			if len(c.TopValues) > 0 {
				b.WriteString(" - top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}
	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD]\n")
		b.WriteString("| ")
		for i, c := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(c.Name)
		}
		b.WriteString(" |\n| ")
		for i := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i, val := range row {
				if i > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
