// Package production provides production integrations: report persistence,
// record publishing and terminal rendering.
package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/comalice/formulax/internal/batch"
)

// ReportPersister stores batch reports by run ID.
type ReportPersister interface {
	Save(ctx context.Context, report *batch.Report) error
	Load(ctx context.Context, runID string) (*batch.Report, error)
	Path(runID string) string
}

// NewPersister returns the persister for format ("json" or "yaml") rooted at dir.
func NewPersister(format, dir string) (ReportPersister, error) {
	switch format {
	case "json", "":
		return NewJSONPersister(dir)
	case "yaml", "yml":
		return NewYAMLPersister(dir)
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// JSONPersister is a file-based persister using JSON serialization.
type JSONPersister struct {
	dir string
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister{dir: dir}, nil
}

func (p *JSONPersister) Path(runID string) string {
	return filepath.Join(p.dir, runID+".json")
}

func (p *JSONPersister) Save(ctx context.Context, report *batch.Report) error {
	if err := checkRunID(report); err != nil {
		return err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}

	fn := p.Path(report.RunID)
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func (p *JSONPersister) Load(ctx context.Context, runID string) (*batch.Report, error) {
	data, err := readReport(p.Path(runID), runID)
	if err != nil {
		return nil, err
	}

	var report batch.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	report.RunID = runID
	return &report, nil
}

// YAMLPersister is a file-based persister using YAML serialization.
type YAMLPersister struct {
	dir string
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister{dir: dir}, nil
}

func (p *YAMLPersister) Path(runID string) string {
	return filepath.Join(p.dir, runID+".yaml")
}

func (p *YAMLPersister) Save(ctx context.Context, report *batch.Report) error {
	if err := checkRunID(report); err != nil {
		return err
	}
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}

	fn := p.Path(report.RunID)
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func (p *YAMLPersister) Load(ctx context.Context, runID string) (*batch.Report, error) {
	data, err := readReport(p.Path(runID), runID)
	if err != nil {
		return nil, err
	}

	var report batch.Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	report.RunID = runID
	return &report, nil
}

func checkRunID(report *batch.Report) error {
	if report == nil {
		return errors.New("nil report")
	}
	if report.RunID == "" || filepath.Base(report.RunID) != report.RunID {
		return fmt.Errorf("invalid run id %q", report.RunID)
	}
	return nil
}

func readReport(fn, runID string) ([]byte, error) {
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("report %q: %w", runID, os.ErrNotExist)
		}
		return nil, fmt.Errorf("read %s: %w", fn, err)
	}
	return data, nil
}
