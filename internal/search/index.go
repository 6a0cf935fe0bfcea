package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/comalice/formulax"
)

// Field weights: a term in a formula's name outranks one in its description.
const (
	nameWeight        = 3.0
	aliasWeight       = 3.0
	descriptionWeight = 1.0
	paramWeight       = 0.5
)

// Hit is a matching formula and its score.
type Hit struct {
	Formula *formulax.Formula
	Score   float64
	Terms   []string
}

type document struct {
	formula *formulax.Formula
	weights map[string]float64
}

// Index is an immutable keyword index over a registry snapshot.
type Index struct {
	tok  *Tokenizer
	docs []document
}

// NewIndex indexes every formula currently in reg.
func NewIndex(reg *formulax.Registry) *Index {
	idx := &Index{tok: NewTokenizer()}
	for _, f := range reg.List() {
		d := document{formula: f, weights: map[string]float64{}}
		idx.add(d, f.Name, nameWeight)
		idx.add(d, strings.Join(reg.Aliases(f.Name), " "), aliasWeight)
		idx.add(d, f.Description, descriptionWeight)
		idx.add(d, strings.Join(f.Params, " "), paramWeight)
		idx.docs = append(idx.docs, d)
	}
	return idx
}

func (idx *Index) add(d document, text string, weight float64) {
	for _, term := range idx.tok.Tokenize(text) {
		if weight > d.weights[term] {
			d.weights[term] = weight
		}
	}
}

// Search returns formulas matching any query term, best first. Ties are
// ordered by name. A query with no usable terms matches nothing.
func (idx *Index) Search(query string) []Hit {
	terms := idx.tok.Tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	var hits []Hit
	for _, d := range idx.docs {
		var h Hit
		for _, term := range terms {
			if w, ok := d.weights[term]; ok {
				h.Score += w
				h.Terms = append(h.Terms, term)
			}
		}
		if h.Score > 0 {
			h.Formula = d.formula
			hits = append(hits, h)
		}
	}
	slices.SortFunc(hits, func(a, b Hit) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return strings.Compare(a.Formula.Name, b.Formula.Name)
	})
	return hits
}
