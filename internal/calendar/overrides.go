package calendar

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"punchcli/pkg/contracts/domain"
)

var validate = validator.New()

// Overrides is the user-managed set of calendar overrides, unique by date.
type Overrides struct {
	items []domain.EventOverride
}

// NewOverrides builds a set from existing overrides. Later duplicates replace
// earlier ones.
func NewOverrides(items ...domain.EventOverride) (*Overrides, error) {
	o := &Overrides{}
	for _, item := range items {
		if err := o.Add(item); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Add validates an override and stores it, replacing any override on the same date.
func (o *Overrides) Add(item domain.EventOverride) error {
	item.Date = strings.TrimSpace(item.Date)
	item.Label = strings.TrimSpace(item.Label)
	item.Type = strings.TrimSpace(item.Type)
	if err := validate.Struct(item); err != nil {
		return fmt.Errorf("invalid override %q: %w", item.Date, err)
	}

	for i := range o.items {
		if o.items[i].Date == item.Date {
			o.items[i] = item
			return nil
		}
	}
	o.items = append(o.items, item)
	return nil
}

// Remove deletes the override for date and reports whether one existed.
func (o *Overrides) Remove(date string) bool {
	for i := range o.items {
		if o.items[i].Date == date {
			o.items = append(o.items[:i], o.items[i+1:]...)
			return true
		}
	}
	return false
}

// List returns the overrides sorted by date.
func (o *Overrides) List() []domain.EventOverride {
	out := make([]domain.EventOverride, len(o.items))
	copy(out, o.items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Len returns the number of overrides.
func (o *Overrides) Len() int {
	return len(o.items)
}

type overridesFile struct {
	Events []domain.EventOverride `yaml:"events"`
}

// LoadOverridesFile reads overrides from a YAML file of the form
//
//	events:
//	  - date: 2024-01-07
//	    label: New Year
//	    type: Holiday
func (o *Overrides) LoadOverridesFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read overrides file: %w", err)
	}

	var file overridesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse overrides file: %w", err)
	}

	for _, item := range file.Events {
		if err := o.Add(item); err != nil {
			return err
		}
	}
	return nil
}

// ParseOverrideFlag parses "date|label|type". The type is optional.
func ParseOverrideFlag(value string) (domain.EventOverride, error) {
	parts := strings.Split(value, "|")
	if len(parts) < 2 || len(parts) > 3 {
		return domain.EventOverride{}, fmt.Errorf("override %q must look like date|label|type", value)
	}
	item := domain.EventOverride{
		Date:  strings.TrimSpace(parts[0]),
		Label: strings.TrimSpace(parts[1]),
	}
	if len(parts) == 3 {
		item.Type = strings.TrimSpace(parts[2])
	}
	return item, nil
}
