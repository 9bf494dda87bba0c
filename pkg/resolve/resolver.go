// Package resolve turns noisy medicine names into catalog records: an exact
// pass over normalized names, then a fuzzy pass that proposes close
// candidates, then no match.
package resolve

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/hazyhaar/greenmeds/pkg/catalog"
)

// Default fuzzy-match tuning. Below the cutoff a wrong verdict is judged
// worse than no verdict at all.
const (
	DefaultCutoff        = 0.5
	DefaultMaxCandidates = 5
)

// Kind is the outcome of a resolution.
type Kind int

const (
	NotFound Kind = iota
	Exact
	Ambiguous
)

func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Ambiguous:
		return "ambiguous"
	default:
		return "not_found"
	}
}

// MarshalText encodes the kind by name in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "exact":
		*k = Exact
	case "ambiguous":
		*k = Ambiguous
	case "not_found":
		*k = NotFound
	default:
		return eris.Errorf("unknown resolution kind %q", b)
	}
	return nil
}

// Candidate is a fuzzy suggestion: an original catalog name and how close
// its normalized form is to the normalized input.
type Candidate struct {
	Name       string  `json:"name"`
	Similarity float64 `json:"similarity"`
}

// Resolution is the result of one lookup. Exactly one of Record (Exact) or
// Candidates (Ambiguous) is set; both are empty for NotFound.
type Resolution struct {
	Kind       Kind            `json:"kind"`
	Input      string          `json:"input"`
	Normalized string          `json:"normalized"`
	Record     *catalog.Record `json:"record,omitempty"`
	Candidates []Candidate     `json:"candidates,omitempty"`
}

// CandidateNames returns the suggested catalog names, best first.
func (r Resolution) CandidateNames() []string {
	names := make([]string, len(r.Candidates))
	for i, c := range r.Candidates {
		names[i] = c.Name
	}
	return names
}

// Options tunes the fuzzy pass. Zero values select the defaults;
// MaxCandidates is capped at DefaultMaxCandidates.
type Options struct {
	Cutoff        float64
	MaxCandidates int
}

func (o Options) withDefaults() Options {
	if o.Cutoff <= 0 || o.Cutoff > 1 {
		o.Cutoff = DefaultCutoff
	}
	if o.MaxCandidates <= 0 || o.MaxCandidates > DefaultMaxCandidates {
		o.MaxCandidates = DefaultMaxCandidates
	}
	return o
}

// Resolver matches input against one catalog. Normalized catalog names are
// computed once at construction; afterwards the Resolver is read-only and
// safe for concurrent use.
type Resolver struct {
	store   *catalog.Store
	opts    Options
	records []catalog.Record
	// keys holds each distinct non-empty normalized name once, in catalog
	// order, with the index of the first record carrying it.
	keys  []string
	first map[string]int
}

// NewResolver prepares a resolver over store.
func NewResolver(store *catalog.Store, opts Options) *Resolver {
	r := &Resolver{
		store:   store,
		opts:    opts.withDefaults(),
		records: store.Records(),
		first:   make(map[string]int),
	}
	for i, rec := range r.records {
		key := Normalize(rec.Name)
		if key == "" {
			continue
		}
		if _, seen := r.first[key]; seen {
			continue
		}
		r.first[key] = i
		r.keys = append(r.keys, key)
	}
	return r
}

// Store returns the catalog the resolver reads.
func (r *Resolver) Store() *catalog.Store { return r.store }

// Options returns the effective tuning.
func (r *Resolver) Options() Options { return r.opts }

// Resolve looks up raw input. Blank input, or input that normalizes to
// nothing, is NotFound.
func (r *Resolver) Resolve(raw string) Resolution {
	res := Resolution{Kind: NotFound, Input: raw}
	if strings.TrimSpace(raw) == "" {
		return res
	}

	key := Normalize(raw)
	res.Normalized = key
	if key == "" {
		return res
	}

	if i, ok := r.first[key]; ok {
		rec := r.records[i]
		res.Kind = Exact
		res.Record = &rec
		return res
	}

	if cands := r.fuzzy(key); len(cands) > 0 {
		res.Kind = Ambiguous
		res.Candidates = cands
	}
	return res
}

// fuzzy ranks distinct normalized catalog names by similarity to key,
// keeping those at or above the cutoff. Ties keep catalog order.
func (r *Resolver) fuzzy(key string) []Candidate {
	m := newMatcher(key)

	type scored struct {
		idx   int
		ratio float64
	}
	var hits []scored
	for _, k := range r.keys {
		if ratio := m.ratio(k); ratio >= r.opts.Cutoff {
			hits = append(hits, scored{idx: r.first[k], ratio: ratio})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].ratio > hits[j].ratio })
	if len(hits) > r.opts.MaxCandidates {
		hits = hits[:r.opts.MaxCandidates]
	}

	out := make([]Candidate, len(hits))
	for i, h := range hits {
		out[i] = Candidate{Name: r.records[h.idx].Name, Similarity: h.ratio}
	}
	return out
}
