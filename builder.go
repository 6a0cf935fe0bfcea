package formulax

import (
	"errors"
	"fmt"
)

// Builder provides a fluent API for assembling a Registry from named formulas
// instead of constructing Formula values by hand.
type Builder struct {
	order    []string
	formulas map[string]*Formula
	errs     []error
}

// FormulaBuilder configures a single formula.
type FormulaBuilder struct {
	b       *Builder
	formula *Formula
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		formulas: make(map[string]*Formula),
	}
}

// Formula creates or retrieves a formula by name. Names are normalized, so
// "Triangle_Area" and "triangle-area" refer to the same formula.
func (b *Builder) Formula(name string) *FormulaBuilder {
	key := Normalize(name)
	f, ok := b.formulas[key]
	if !ok {
		f = &Formula{Name: key}
		b.formulas[key] = f
		b.order = append(b.order, key)
	}
	return &FormulaBuilder{b: b, formula: f}
}

// Build validates every formula and constructs the Registry.
func (b *Builder) Build() (*Registry, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	formulas := make([]*Formula, 0, len(b.order))
	for _, name := range b.order {
		formulas = append(formulas, b.formulas[name])
	}
	return NewRegistry(formulas...)
}

// MustBuild is Build for catalogs known to be valid at compile time.
func (b *Builder) MustBuild() *Registry {
	r, err := b.Build()
	if err != nil {
		panic(err)
	}
	return r
}

// validate collects deferred builder errors and checks every formula has a computation.
func (b *Builder) validate() error {
	errs := append([]error(nil), b.errs...)
	for _, name := range b.order {
		if b.formulas[name].Compute == nil {
			errs = append(errs, fmt.Errorf("formula %s must define a computation", name))
		}
	}
	return errors.Join(errs...)
}

// FormulaBuilder fluent methods

// Describe sets the one-line description shown by list and search.
func (fb *FormulaBuilder) Describe(text string) *FormulaBuilder {
	fb.formula.Description = text
	return fb
}

// Params declares the ordered parameter names. Arity follows from their count.
func (fb *FormulaBuilder) Params(names ...string) *FormulaBuilder {
	fb.formula.Params = append([]string(nil), names...)
	return fb
}

// Unit sets the unit appended to printed numeric results.
func (fb *FormulaBuilder) Unit(unit string) *FormulaBuilder {
	fb.formula.Unit = unit
	return fb
}

// Prompt sets the text printed before inputs are read on the console.
func (fb *FormulaBuilder) Prompt(text string) *FormulaBuilder {
	fb.formula.Prompt = text
	return fb
}

// Phrase sets the lead-in of the printed result, e.g. "The area of the triangle is".
func (fb *FormulaBuilder) Phrase(text string) *FormulaBuilder {
	fb.formula.Phrase = text
	return fb
}

// Alias adds alternative names.
func (fb *FormulaBuilder) Alias(aliases ...string) *FormulaBuilder {
	for _, a := range aliases {
		fb.formula.Aliases = append(fb.formula.Aliases, Normalize(a))
	}
	return fb
}

// Numeric sets a computation returning a plain number.
func (fb *FormulaBuilder) Numeric(fn NumericFunc) *FormulaBuilder {
	if fn == nil {
		fb.b.errs = append(fb.b.errs, fmt.Errorf("formula %s: nil numeric function", fb.formula.Name))
		return fb
	}
	fb.formula.Kind = Numeric
	fb.formula.Compute = func(args []float64) Result {
		return Number(fn(args))
	}
	return fb
}

// Categorical sets a computation returning a label.
func (fb *FormulaBuilder) Categorical(fn LabelFunc) *FormulaBuilder {
	if fn == nil {
		fb.b.errs = append(fb.b.errs, fmt.Errorf("formula %s: nil label function", fb.formula.Name))
		return fb
	}
	fb.formula.Kind = Categorical
	fb.formula.Compute = func(args []float64) Result {
		return Label(fn(args))
	}
	return fb
}

// Compute sets a full computation, for formulas that need the degenerate sentinel
// or attach a label to a number.
func (fb *FormulaBuilder) Compute(kind Kind, fn ComputeFunc) *FormulaBuilder {
	if fn == nil {
		fb.b.errs = append(fb.b.errs, fmt.Errorf("formula %s: nil compute function", fb.formula.Name))
		return fb
	}
	fb.formula.Kind = kind
	fb.formula.Compute = fn
	return fb
}
