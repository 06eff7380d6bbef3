// Package exception holds the irreducible business exceptions of the
// costing pipeline: named part numbers whose man-hours or overheads do not
// follow the general formulas. Rules live in an HCL file so the core logic
// stays free of magic identifiers; built-in defaults match the rules the
// finance team uses today.
package exception

import (
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/Verman94/PriceWebApp/internal/errors"
)

// ManHourOverride fixes the man-hour value for listed parts that lack
// meaningful routing data
type ManHourOverride struct {
	Parts []string `hcl:"parts"`
	Hours float64  `hcl:"hours"`
}

// ManHourCopy copies the man-hour value of a named anchor part onto the
// listed parts
type ManHourCopy struct {
	Parts  []string `hcl:"parts"`
	Anchor string   `hcl:"anchor"`
}

// MOHExemption zeroes material overhead for matching parts, either by
// part-number prefix or by exact part number
type MOHExemption struct {
	Prefix string `hcl:"prefix,optional"`
	Part   string `hcl:"part,optional"`
}

// Table is the full set of exception rules for one pipeline run
type Table struct {
	ManHourOverrides []ManHourOverride `hcl:"man_hour_override,block"`
	ManHourCopies    []ManHourCopy     `hcl:"man_hour_copy,block"`
	MOHExemptions    []MOHExemption    `hcl:"moh_exemption,block"`
}

// Defaults returns the built-in exception rules.
// The copy anchor is the Galaxy base part; the original workbook addressed
// it by row position, which is an ordering accident. The anchor identity
// still needs confirmation from the domain owner.
func Defaults() *Table {
	return &Table{
		ManHourOverrides: []ManHourOverride{
			{
				Parts: []string{"31BB802000", "31BB803000", "31BB804000", "31BB805000"},
				Hours: 0.1,
			},
		},
		ManHourCopies: []ManHourCopy{
			{
				Parts:  []string{"31CS009006", "31CS009007"},
				Anchor: "31CS009005",
			},
		},
		MOHExemptions: []MOHExemption{
			{Prefix: "34"},
			{Part: "3129814000"},
		},
	}
}

// Load reads exception rules from an HCL file
func Load(path string) (*Table, error) {
	var t Table
	if err := hclsimple.DecodeFile(path, nil, &t); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "decode exception file", err)
	}
	return &t, nil
}

// FixedManHour returns the fixed man-hour override for a part, if any
func (t *Table) FixedManHour(partNo string) (float64, bool) {
	for _, o := range t.ManHourOverrides {
		for _, p := range o.Parts {
			if p == partNo {
				return o.Hours, true
			}
		}
	}
	return 0, false
}

// CopyAnchor returns the anchor part whose man-hour value the part copies
func (t *Table) CopyAnchor(partNo string) (string, bool) {
	for _, c := range t.ManHourCopies {
		for _, p := range c.Parts {
			if p == partNo {
				return c.Anchor, true
			}
		}
	}
	return "", false
}

// MOHExempt reports whether material overhead is forced to zero for a part
func (t *Table) MOHExempt(partNo string) bool {
	for _, e := range t.MOHExemptions {
		if e.Prefix != "" && strings.HasPrefix(partNo, e.Prefix) {
			return true
		}
		if e.Part != "" && e.Part == partNo {
			return true
		}
	}
	return false
}
