// Package batch runs files of formula evaluations. A job is a YAML (or JSON)
// document listing items; the runner evaluates them with bounded concurrency
// and collects an ordered report.
package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/formulax"
)

// Item is one evaluation request.
type Item struct {
	ID      string          `json:"id,omitempty" yaml:"id,omitempty"`
	Formula string          `json:"formula" yaml:"formula"`
	Args    formulax.Floats `json:"args" yaml:"args,flow"`
}

// Job is a named list of items.
type Job struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Workers int    `json:"workers,omitempty" yaml:"workers,omitempty"`
	Items   []Item `json:"items" yaml:"items"`
}

// Parse decodes a job document. JSON documents are accepted as YAML.
func Parse(data []byte) (*Job, error) {
	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("parse job: %w", err)
	}
	return &job, nil
}

// Load reads a job file. A job without a name is named after the file.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	job, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if job.Name == "" {
		job.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return job, nil
}

// Prepare checks the job's structure and assigns missing IDs as item-<n>,
// n counting from one.
func (j *Job) Prepare() error {
	if len(j.Items) == 0 {
		return errors.New("job has no items")
	}
	if j.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", j.Workers)
	}
	for i := range j.Items {
		if j.Items[i].ID == "" {
			j.Items[i].ID = fmt.Sprintf("item-%d", i+1)
		}
	}

	var errs []error
	seen := make(map[string]int, len(j.Items))
	for i, item := range j.Items {
		if prev, ok := seen[item.ID]; ok {
			errs = append(errs, fmt.Errorf("item %d: duplicate id %q (first used by item %d)", i, item.ID, prev))
			continue
		}
		seen[item.ID] = i
	}
	return errors.Join(errs...)
}

// Validate runs Prepare and checks every item's formula and arity against reg.
// All problems are reported together.
func (j *Job) Validate(reg *formulax.Registry) error {
	if err := j.Prepare(); err != nil {
		return err
	}
	var errs []error
	for i, item := range j.Items {
		if err := item.Check(reg); err != nil {
			errs = append(errs, fmt.Errorf("item %d (%s): %w", i, item.ID, err))
		}
	}
	return errors.Join(errs...)
}

// Check resolves the item's formula and verifies its arity.
func (it Item) Check(reg *formulax.Registry) error {
	if strings.TrimSpace(it.Formula) == "" {
		return errors.New("formula is required")
	}
	f, err := reg.Lookup(it.Formula)
	if err != nil {
		return err
	}
	if len(it.Args) != f.Arity() {
		return &formulax.ArgumentCountError{Formula: f.Name, Want: f.Arity(), Got: len(it.Args)}
	}
	return nil
}
