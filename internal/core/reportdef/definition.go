package reportdef

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aevon-lab/toppick/internal/core/storage"
	"github.com/aevon-lab/toppick/internal/core/toppick"
	"gopkg.in/yaml.v3"
)

// DefaultName is the report registered when no definitions are configured.
const DefaultName = "top_track_per_country"

// ErrNotFound is returned by Get for names that were never loaded.
var ErrNotFound = errors.New("report definition not found")

// Definition describes one grouped top-item report.
// Definitions are loaded at startup from YAML files and fingerprinted so a
// result can be traced back to the exact file that produced it.
type Definition struct {
	Name        string `yaml:"name" json:"name"`
	GroupBy     string `yaml:"group_by" json:"group_by"`
	Item        string `yaml:"item" json:"item"`
	Operator    string `yaml:"operator" json:"operator"`
	Weight      string `yaml:"weight,omitempty" json:"weight,omitempty"`
	KeyOrder    string `yaml:"key_order" json:"key_order"`
	Limit       int    `yaml:"limit,omitempty" json:"limit,omitempty"`
	Fingerprint string `yaml:"-" json:"fingerprint"` // SHA-256 of the raw YAML file
}

// EventQuery returns the storage query that feeds this report.
func (d Definition) EventQuery() storage.EventQuery {
	return storage.EventQuery{GroupBy: d.GroupBy, Item: d.Item, Weight: d.Weight}
}

// Pushdownable reports whether the database can compute this report on its
// own: a plain count whose integer item keys make SQL MAX agree with the
// tie-break order.
func (d Definition) Pushdownable() bool {
	if d.Operator != toppick.OpCount || d.KeyOrder != toppick.OrderInteger {
		return false
	}
	item, err := storage.LookupItem(d.Item)
	return err == nil && item.IntegerKeys
}

// DefaultDefinition is the most purchased track per customer country.
func DefaultDefinition() Definition {
	def := Definition{
		Name:     DefaultName,
		GroupBy:  "customer_country",
		Item:     "track",
		Operator: toppick.OpCount,
		KeyOrder: toppick.OrderInteger,
	}
	data, _ := yaml.Marshal(def)
	def.Fingerprint = fingerprint(data)
	return def
}

// applyDefaults fills unset fields in place.
func (d *Definition) applyDefaults() {
	if d.GroupBy == "" {
		d.GroupBy = "customer_country"
	}
	if d.Item == "" {
		d.Item = "track"
	}
	if d.Operator == "" {
		d.Operator = toppick.OpCount
	}
	if d.KeyOrder == "" {
		d.KeyOrder = toppick.OrderInteger
	}
}

// Validate checks every name against the registries it will be resolved
// from, so a bad definition fails at startup rather than on first run.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("report name must not be empty")
	}
	if !toppick.ValidOperator(d.Operator) {
		return fmt.Errorf("report %q: %w: %q", d.Name, toppick.ErrUnknownOperator, d.Operator)
	}
	if _, err := toppick.LookupOrder(d.KeyOrder); err != nil {
		return fmt.Errorf("report %q: %w", d.Name, err)
	}
	if err := storage.ValidateEventQuery(d.EventQuery()); err != nil {
		return fmt.Errorf("report %q: %w", d.Name, err)
	}
	if d.Operator == toppick.OpSum && d.Weight == "" {
		return fmt.Errorf("report %q: operator sum requires a weight", d.Name)
	}
	if d.Operator == toppick.OpCount && d.Weight != "" {
		return fmt.Errorf("report %q: weight %q is only used by operator sum", d.Name, d.Weight)
	}
	if d.Limit < 0 {
		return fmt.Errorf("report %q: limit must be >= 0", d.Name)
	}
	return nil
}

// Repository defines the interface for looking up report definitions.
type Repository interface {
	// Get returns the definition with the given name, or ErrNotFound.
	Get(ctx context.Context, name string) (*Definition, error)

	// List returns all definitions ordered by name.
	List(ctx context.Context) ([]Definition, error)
}

// MemoryRepository holds definitions in memory. Loaded once, never mutated
// after construction, so it is safe for concurrent readers.
type MemoryRepository struct {
	defs map[string]Definition
}

// NewMemoryRepository validates defs and indexes them by name.
func NewMemoryRepository(defs ...Definition) (*MemoryRepository, error) {
	r := &MemoryRepository{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		if err := r.add(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *MemoryRepository) add(d Definition) error {
	d.applyDefaults()
	if err := d.Validate(); err != nil {
		return err
	}
	if _, exists := r.defs[d.Name]; exists {
		return fmt.Errorf("report %q: duplicate report name (check multiple YAML files)", d.Name)
	}
	r.defs[d.Name] = d
	return nil
}

// Get returns the definition with the given name.
func (r *MemoryRepository) Get(_ context.Context, name string) (*Definition, error) {
	d, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return &d, nil
}

// List returns all definitions ordered by name.
func (r *MemoryRepository) List(_ context.Context) ([]Definition, error) {
	return r.Definitions(), nil
}

// Definitions returns all definitions ordered by name.
func (r *MemoryRepository) Definitions() []Definition {
	out := make([]Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of loaded definitions.
func (r *MemoryRepository) Len() int {
	return len(r.defs)
}

// EnsureDefault registers DefaultDefinition when nothing else was loaded.
func (r *MemoryRepository) EnsureDefault() {
	if len(r.defs) > 0 {
		return
	}
	d := DefaultDefinition()
	r.defs[d.Name] = d
}

// NewFileSystemRepository loads every *.yaml / *.yml file in dir, one
// definition per file. A missing directory yields an empty repository.
// Any malformed or invalid file fails the whole load.
func NewFileSystemRepository(dir string) (*MemoryRepository, error) {
	r := &MemoryRepository{defs: make(map[string]Definition)}

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("report definitions dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("report definitions path %q is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading report definitions dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || (!strings.HasSuffix(e.Name(), ".yaml") && !strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}

		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading report file %s: %w", path, err)
		}

		var def Definition
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("parsing report file %s: %w", path, err)
		}
		if def.Name == "" {
			continue // empty or comment-only file
		}
		def.Fingerprint = fingerprint(data)

		if err := r.add(def); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return r, nil
}

func fingerprint(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
