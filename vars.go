package formulax

import (
	"fmt"
	"sort"
	"sync"
)

// AnswerVar holds the most recent finite numeric result in a session.
const AnswerVar = "ans"

// Vars provides thread-safe storage for named values that can be passed back
// into formulas as arguments.
type Vars struct {
	mu   sync.RWMutex
	data map[string]float64
}

// NewVars creates an empty variable set.
func NewVars() *Vars {
	return &Vars{
		data: make(map[string]float64),
	}
}

// Get retrieves a value by name.
func (v *Vars) Get(name string) (float64, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	val, ok := v.data[name]
	return val, ok
}

// Set stores a value by name.
func (v *Vars) Set(name string, val float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.data[name] = val
}

// Delete removes a name.
func (v *Vars) Delete(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.data, name)
}

// Resolve looks up several names at once, failing on the first unknown one.
func (v *Vars) Resolve(names ...string) ([]float64, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]float64, len(names))
	for i, n := range names {
		val, ok := v.data[n]
		if !ok {
			return nil, fmt.Errorf("undefined variable %q", n)
		}
		out[i] = val
	}
	return out, nil
}

// Names returns the defined names in sorted order.
func (v *Vars) Names() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	names := make([]string, 0, len(v.data))
	for n := range v.data {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// GetAll returns a snapshot copy of all values.
func (v *Vars) GetAll() map[string]float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()

	snapshot := make(map[string]float64, len(v.data))
	for k, val := range v.data {
		snapshot[k] = val
	}
	return snapshot
}

// LoadAll replaces all values.
func (v *Vars) LoadAll(data map[string]float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.data = make(map[string]float64, len(data))
	for k, val := range data {
		v.data[k] = val
	}
}
