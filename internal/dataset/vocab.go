package dataset

// Vocabulary is an ordered list of categories ranked worst to best.
type Vocabulary struct {
	name   string
	values []string
	rank   map[string]int
}

// NewVocabulary builds a vocabulary whose ranks follow the order of values.
func NewVocabulary(name string, values ...string) *Vocabulary {
	v := &Vocabulary{name: name, values: append([]string(nil), values...), rank: make(map[string]int, len(values))}
	for i, s := range values {
		v.rank[s] = i
	}
	return v
}

// Name returns the source column the vocabulary encodes.
func (v *Vocabulary) Name() string { return v.name }

// Values returns a copy of the categories in rank order.
func (v *Vocabulary) Values() []string { return append([]string(nil), v.values...) }

// Len is the cardinality.
func (v *Vocabulary) Len() int { return len(v.values) }

// Rank returns the 0-based rank of s; ok is false for unknown values.
// Matching is exact and case-sensitive.
func (v *Vocabulary) Rank(s string) (int, bool) {
	r, ok := v.rank[s]
	return r, ok
}

// Ordinal vocabularies for the diamond categoricals.
var (
	CutOrder     = NewVocabulary(ColCut, "Fair", "Good", "Very Good", "Premium", "Ideal")
	ColorOrder   = NewVocabulary(ColColor, "J", "I", "H", "G", "F", "E", "D")
	ClarityOrder = NewVocabulary(ColClarity, "I1", "SI2", "SI1", "VS2", "VS1", "VVS2", "VVS1", "IF")
)

// Vocabularies lists the encoded categoricals in encoding order.
func Vocabularies() []*Vocabulary {
	return []*Vocabulary{CutOrder, ColorOrder, ClarityOrder}
}
