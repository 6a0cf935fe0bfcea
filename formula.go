package formulax

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
)

// Kind tells whether a formula yields a number or a label.
type Kind int

const (
	Numeric Kind = iota
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ComputeFunc receives exactly Arity() arguments.
type ComputeFunc func(args []float64) Result

// NumericFunc and LabelFunc are the shorthand compute signatures accepted by the builder.
type NumericFunc func(args []float64) float64
type LabelFunc func(args []float64) string

var (
	ErrInvalidArgumentCount = errors.New("invalid argument count")
	ErrUnknownFormula       = errors.New("unknown formula")
	ErrDuplicateFormula     = errors.New("duplicate formula")
)

// ArgumentCountError reports an arity mismatch. It matches ErrInvalidArgumentCount with errors.Is.
type ArgumentCountError struct {
	Formula string
	Want    int
	Got     int
}

func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("%s: %s: want %d, got %d", e.Formula, ErrInvalidArgumentCount, e.Want, e.Got)
}

func (e *ArgumentCountError) Unwrap() error {
	return ErrInvalidArgumentCount
}

// Formula is a named computation over a fixed number of scalar inputs.
type Formula struct {
	Name        string
	Description string
	Params      []string
	Kind        Kind
	Unit        string
	Prompt      string   // printed once before the inputs are read
	Phrase      string   // lead-in of the printed result line
	Aliases     []string // declared aliases; read only once registered
	Compute     ComputeFunc
}

// Result is the outcome of one evaluation.
type Result struct {
	Formula    string  `json:"formula" yaml:"formula"`
	Kind       Kind    `json:"kind" yaml:"kind"`
	Value      float64 `json:"value" yaml:"value"`
	Label      string  `json:"label,omitempty" yaml:"label,omitempty"`
	Degenerate bool    `json:"degenerate,omitempty" yaml:"degenerate,omitempty"`
}

// UndefinedLabel is the label carried by the degenerate-input sentinel.
const UndefinedLabel = "undefined"

// Undefined returns the sentinel for inputs a formula cannot compute with,
// such as a zero divisor.
func Undefined() Result {
	return Result{Kind: Numeric, Value: math.NaN(), Label: UndefinedLabel, Degenerate: true}
}

// Number wraps a plain numeric value.
func Number(v float64) Result {
	return Result{Kind: Numeric, Value: v}
}

// Label wraps a categorical value.
func Label(l string) Result {
	return Result{Kind: Categorical, Value: math.NaN(), Label: l}
}

// IsFinite reports whether the result carries a usable number.
func (r Result) IsFinite() bool {
	return r.Kind == Numeric && !r.Degenerate && !math.IsNaN(r.Value) && !math.IsInf(r.Value, 0)
}

func (r Result) String() string {
	if r.Kind == Categorical || r.Degenerate {
		return r.Label
	}
	if r.Label != "" {
		return fmt.Sprintf("%g (%s)", r.Value, r.Label)
	}
	return fmt.Sprintf("%g", r.Value)
}

// Arity is the number of arguments the formula requires.
func (f *Formula) Arity() int {
	return len(f.Params)
}

// Validate checks the formula is usable by a Registry.
func (f *Formula) Validate() error {
	if f.Name == "" {
		return errors.New("formula name is required")
	}
	if f.Name != Normalize(f.Name) {
		return fmt.Errorf("formula name %q is not canonical (want %q)", f.Name, Normalize(f.Name))
	}
	if f.Compute == nil {
		return fmt.Errorf("formula %s has no compute function", f.Name)
	}
	for i, p := range f.Params {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("formula %s: empty parameter name at index %d", f.Name, i)
		}
	}
	return nil
}

// Eval checks arity and runs the computation.
func (f *Formula) Eval(args ...float64) (Result, error) {
	if len(args) != f.Arity() {
		return Result{}, &ArgumentCountError{Formula: f.Name, Want: f.Arity(), Got: len(args)}
	}
	in := make([]float64, len(args))
	copy(in, args)
	r := f.Compute(in)
	r.Formula = f.Name
	if r.Degenerate {
		r.Kind = Numeric
	} else if f.Kind == Categorical {
		r.Kind = Categorical
	}
	return r, nil
}

// Normalize maps user spellings such as "Triangle_Area" to the canonical "triangle-area".
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Map(func(r rune) rune {
		if r == '_' || r == ' ' {
			return '-'
		}
		return r
	}, name)
}

// Registry is a lookup table of formulas. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	formulas map[string]*Formula
	aliases  map[string]string   // alias -> canonical name
	byName   map[string][]string // canonical name -> aliases in registration order
	order    []string
}

//
// Public API
//

func NewRegistry(formulas ...*Formula) (*Registry, error) {
	r := &Registry{
		formulas: map[string]*Formula{},
		aliases:  map[string]string{},
		byName:   map[string][]string{},
	}
	for _, f := range formulas {
		if err := r.Register(f); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a formula and its aliases.
func (r *Registry) Register(f *Formula) error {
	if f == nil {
		return errors.New("nil formula")
	}
	if err := f.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taken(f.Name) {
		return fmt.Errorf("%w: %s", ErrDuplicateFormula, f.Name)
	}
	seen := map[string]bool{}
	for _, a := range f.Aliases {
		if a = Normalize(a); a == f.Name || r.taken(a) || seen[a] {
			return fmt.Errorf("%w: alias %s", ErrDuplicateFormula, a)
		}
		seen[a] = true
	}
	r.formulas[f.Name] = f
	r.order = append(r.order, f.Name)
	for _, a := range f.Aliases {
		r.addAlias(Normalize(a), f.Name)
	}
	return nil
}

// Alias points an extra name at a registered formula.
func (r *Registry) Alias(alias, name string) error {
	alias, name = Normalize(alias), Normalize(name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.formulas[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFormula, name)
	}
	if r.taken(alias) {
		return fmt.Errorf("%w: alias %s", ErrDuplicateFormula, alias)
	}
	r.addAlias(alias, name)
	return nil
}

// Aliases returns the aliases of the formula registered as name, including
// those added with Alias, in registration order.
func (r *Registry) Aliases(name string) []string {
	key := Normalize(name)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if canonical, ok := r.aliases[key]; ok {
		key = canonical
	}
	return append([]string(nil), r.byName[key]...)
}

// Lookup resolves a name or alias.
func (r *Registry) Lookup(name string) (*Formula, error) {
	key := Normalize(name)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if f, ok := r.formulas[key]; ok {
		return f, nil
	}
	if canonical, ok := r.aliases[key]; ok {
		return r.formulas[canonical], nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormula, name)
}

// Evaluate looks up a formula and evaluates it.
func (r *Registry) Evaluate(name string, args ...float64) (Result, error) {
	f, err := r.Lookup(name)
	if err != nil {
		return Result{}, err
	}
	return f.Eval(args...)
}

// List returns formulas in registration order.
func (r *Registry) List() []*Formula {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Formula, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.formulas[name])
	}
	return out
}

// Names returns canonical names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Len returns the number of registered formulas.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

//
// Helper Functions (internal API)
//

func (r *Registry) addAlias(alias, name string) {
	r.aliases[alias] = name
	r.byName[name] = append(r.byName[name], alias)
}

func (r *Registry) taken(key string) bool {
	if _, ok := r.formulas[key]; ok {
		return true
	}
	_, ok := r.aliases[key]
	return ok
}
