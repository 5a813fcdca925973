package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/KaramelBytes/dpputility/internal/config"
	"github.com/KaramelBytes/dpputility/internal/utils"
	"github.com/google/uuid"
)

// Loader prepares the diamond dataset named by the data_file setting.
type Loader struct {
	// Config supplies the data_file setting.
	Config config.Provider
	// Anchor is the directory a relative data_file is resolved against.
	Anchor string
	// Logger receives per-load diagnostics. Nil discards them.
	Logger *slog.Logger
	// StrictEncoding fails the load on categories outside the vocabulary
	// instead of leaving the encoded cell missing.
	StrictEncoding bool
}

// NewLoader returns a Loader reading data_file from p, relative to anchor.
func NewLoader(p config.Provider, anchor string) *Loader {
	return &Loader{Config: p, Anchor: anchor}
}

// Load resolves the configured data file and prepares it. With useVolume the
// width, height and length columns are replaced by their product.
func (l *Loader) Load(useVolume bool) (*Table, error) {
	path, err := l.ResolvePath()
	if err != nil {
		return nil, err
	}
	return l.LoadFile(path, useVolume)
}

// ResolvePath returns the absolute location of the configured data file.
func (l *Loader) ResolvePath() (string, error) {
	if l.Config == nil {
		return "", &ConfigurationError{Key: config.KeyDataFile, Err: errors.New("no config provider")}
	}
	rel, err := l.Config.ReadConfigSetting(config.KeyDataFile)
	if err != nil {
		return "", &ConfigurationError{Key: config.KeyDataFile, Err: err}
	}
	path, err := utils.ResolvePath(l.Anchor, rel)
	if err != nil {
		return "", &ConfigurationError{Key: config.KeyDataFile, Err: err}
	}
	return path, nil
}

// LoadFile prepares the CSV at path, bypassing configuration.
func (l *Loader) LoadFile(path string, useVolume bool) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	defer f.Close()
	return l.Read(f, path, useVolume)
}

// Read prepares CSV data from r. name is used in errors and logs.
func (l *Loader) Read(r io.Reader, name string, useVolume bool) (*Table, error) {
	loadID := uuid.NewString()
	log := l.logger().With("load_id", loadID, "source", name, "use_volume", useVolume)

	t, lines, err := parseCSV(r, name)
	if err != nil {
		log.Error("load failed", "error", err)
		return nil, err
	}
	t.loadID = loadID
	log.Debug("parsed", "rows", t.NumRows())

	keep := make([]bool, t.NumRows())
	dims := make([]*Column, len(dimensionColumns))
	for i, col := range dimensionColumns {
		dims[i], _ = t.Column(col)
	}
	for row := range keep {
		keep[row] = true
		for _, c := range dims {
			// NaN compares false, so a missing dimension is kept.
			if c.num[row] <= 0 {
				keep[row] = false
				break
			}
		}
	}
	if dropped := t.filterRows(keep); dropped > 0 {
		lines = filterSlice(lines, keep)
		t.warnf("dropped %d rows with non-positive width/height/length", dropped)
		log.Info("dropped degenerate rows", "dropped", dropped, "remaining", t.NumRows())
	}

	for _, vocab := range Vocabularies() {
		if err := l.encode(t, vocab, lines, log); err != nil {
			log.Error("load failed", "error", err)
			return nil, err
		}
	}

	if useVolume {
		n := t.NumRows()
		vol := &Column{Name: ColVolume, Kind: KindNumeric, num: make([]float64, n)}
		for row := 0; row < n; row++ {
			v := 1.0
			for _, c := range dims {
				v *= c.num[row]
			}
			vol.num[row] = v
		}
		if err := t.add(vol); err != nil {
			return nil, err
		}
		t.drop(dimensionColumns...)
	}

	t.moveLast(ColPrice)
	log.Debug("prepared", "rows", t.NumRows(), "columns", t.NumCols())
	return t, nil
}

func (l *Loader) encode(t *Table, vocab *Vocabulary, lines []int, log *slog.Logger) error {
	src, ok := t.Column(vocab.Name())
	if !ok {
		return fmt.Errorf("encode: column %q not found", vocab.Name())
	}
	out := &Column{Name: vocab.Name() + EncodedSuffix, Kind: KindOrdinal, ord: make([]int, len(src.text))}
	gaps := map[string]int{}
	for row, v := range src.text {
		r, ok := vocab.Rank(v)
		if !ok {
			if l.StrictEncoding {
				return &EncodingError{Column: vocab.Name(), Value: v, Line: lines[row]}
			}
			r = MissingOrdinal
			gaps[v]++
		}
		out.ord[row] = r
	}
	if len(gaps) > 0 {
		total := 0
		for _, n := range gaps {
			total += n
		}
		t.warnf("%s: %d rows with unknown categories left unencoded", vocab.Name(), total)
		log.Warn("unknown categories", "column", vocab.Name(), "rows", total, "distinct", len(gaps))
	}
	return t.add(out)
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// parseCSV reads a header plus rows and names the columns positionally. It
// returns the table and the 1-based file line of each row.
func parseCSV(r io.Reader, name string) (*Table, []int, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, &SchemaError{Path: name, Err: errors.New("empty file: missing header row")}
		}
		return nil, nil, readError(name, err)
	}
	if len(header) != len(OriginalColumns) {
		return nil, nil, &SchemaError{Path: name, Want: len(OriginalColumns), Got: len(header)}
	}

	cols := make([]*Column, len(OriginalColumns))
	for i, n := range OriginalColumns {
		kind := KindNumeric
		if i < 3 {
			kind = KindCategorical
		}
		cols[i] = &Column{Name: n, Kind: kind}
	}
	var lines []int
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, readError(name, err)
		}
		line, _ := cr.FieldPos(0)
		lines = append(lines, line)
		for i, c := range cols {
			v := strings.TrimSpace(rec[i])
			if c.Kind == KindCategorical {
				c.text = append(c.text, v)
				continue
			}
			x, err := parseFloat(v)
			if err != nil {
				return nil, nil, &SchemaError{Path: name, Line: line, Column: c.Name, Err: err}
			}
			c.num = append(c.num, x)
		}
	}

	t := &Table{}
	for _, c := range cols {
		if err := t.add(c); err != nil {
			return nil, nil, err
		}
	}
	return t, lines, nil
}

// naTokens are the cell values read as a missing number, the same set
// pandas.read_csv treats as NaN by default.
var naTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

func parseFloat(s string) (float64, error) {
	if _, ok := naTokens[s]; ok {
		return math.NaN(), nil
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return x, nil
}

func readError(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &SchemaError{Path: name, Line: pe.Line, Err: err}
	}
	return &FileAccessError{Path: name, Err: err}
}
