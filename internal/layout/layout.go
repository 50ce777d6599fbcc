// Package layout holds the static attribute-to-cell maps of the supported
// spreadsheet templates. One template version is one fixed set of A1 cell
// addresses; the template is the contract and attributes it does not track
// are silently skipped by callers.
package layout

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CellRef identifies a single destination cell
type CellRef struct {
	Worksheet string
	Cell      string
}

// A1 returns the full A1-style range for the cell, e.g. "'Page 1'!D3".
// Worksheet names containing anything beyond letters and digits must be
// single-quoted in A1 notation.
func (r CellRef) A1() string {
	if needsQuoting(r.Worksheet) {
		return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(r.Worksheet, "'", "''"), r.Cell)
	}
	return fmt.Sprintf("%s!%s", r.Worksheet, r.Cell)
}

func needsQuoting(name string) bool {
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return true
		}
	}
	return false
}

// entry is one attribute's destination. A non-zero rowStride marks a
// repeating-row attribute: index i lands rowStride*i rows below the base cell.
type entry struct {
	cell      string
	rowStride int
}

// Template is a versioned cell layout
type Template struct {
	Version   string
	Worksheet string
	cells     map[string]entry
}

// templates holds one layout per supported spreadsheet template version
var templates = map[string]*Template{
	"5e-2024": {
		Version:   "5e-2024",
		Worksheet: "Page 1",
		cells: map[string]entry{
			"character_name":    {cell: "D3"},
			"background":        {cell: "D9"},
			"class":             {cell: "V9"},
			"subclass":          {cell: "V13"},
			"species":           {cell: "D13"},
			"level":             {cell: "AO4"},
			"xp":                {cell: "AO11"},
			"armor_class":       {cell: "AV6"},
			"initiative":        {cell: "AN27"},
			"speed":             {cell: "BA27"},
			"hit_points_max":    {cell: "BP12"},
			"hit_dice":          {cell: "BY12"},
			"proficiency_bonus": {cell: "D27"},
			"size":              {cell: "BN27"},
			"passive_abilities": {cell: "CA27"},

			"strength_score":     {cell: "M40"},
			"strength_mod":       {cell: "D39"},
			"dexterity_score":    {cell: "M61"},
			"dexterity_mod":      {cell: "D60"},
			"constitution_score": {cell: "M86"},
			"constitution_mod":   {cell: "D85"},
			"intelligence_score": {cell: "AE29"},
			"intelligence_mod":   {cell: "V28"},
			"wisdom_score":       {cell: "AE58"},
			"wisdom_mod":         {cell: "V57"},
			"charisma_score":     {cell: "AE87"},
			"charisma_mod":       {cell: "V86"},

			"strength_saving_throw":     {cell: "F49"},
			"dexterity_saving_throw":    {cell: "F70"},
			"constitution_saving_throw": {cell: "F95"},
			"intelligence_saving_throw": {cell: "X38"},
			"wisdom_saving_throw":       {cell: "X67"},
			"charisma_saving_throw":     {cell: "X96"},

			"strength_proficiency":     {cell: "D49"},
			"dexterity_proficiency":    {cell: "D70"},
			"constitution_proficiency": {cell: "D95"},
			"intelligence_proficiency": {cell: "V38"},
			"wisdom_proficiency":       {cell: "V67"},
			"charisma_proficiency":     {cell: "V96"},

			"skill_proficiencies": {cell: "D105", rowStride: 2},
			"equipment":           {cell: "BH40", rowStride: 2},
		},
	},
}

// ForVersion returns the template for a version
func ForVersion(version string) (*Template, bool) {
	t, ok := templates[version]
	return t, ok
}

// Versions lists the supported template versions in sorted order
func Versions() []string {
	vs := make([]string, 0, len(templates))
	for v := range templates {
		vs = append(vs, v)
	}
	sort.Strings(vs)
	return vs
}

// Resolve returns the destination cell for an attribute. The second return
// is false when the template does not track the attribute.
func (t *Template) Resolve(attr string) (CellRef, bool) {
	e, ok := t.cells[attr]
	if !ok {
		return CellRef{}, false
	}
	return CellRef{Worksheet: t.Worksheet, Cell: e.cell}, true
}

// ResolveIndexed returns the destination cell for element index of a
// repeating-row attribute. Scalar attributes only resolve at index 0.
func (t *Template) ResolveIndexed(attr string, index int) (CellRef, bool) {
	e, ok := t.cells[attr]
	if !ok || index < 0 {
		return CellRef{}, false
	}
	if e.rowStride == 0 {
		if index != 0 {
			return CellRef{}, false
		}
		return CellRef{Worksheet: t.Worksheet, Cell: e.cell}, true
	}

	cell, err := offsetRow(e.cell, index*e.rowStride)
	if err != nil {
		return CellRef{}, false
	}
	return CellRef{Worksheet: t.Worksheet, Cell: cell}, true
}

// offsetRow shifts an A1 cell address down by delta rows
func offsetRow(cell string, delta int) (string, error) {
	col, row, err := splitA1(cell)
	if err != nil {
		return "", err
	}
	row += delta
	if row < 1 {
		return "", fmt.Errorf("row out of range for %s offset %d", cell, delta)
	}
	return fmt.Sprintf("%s%d", col, row), nil
}

// splitA1 splits an A1 address into column letters and row number
func splitA1(cell string) (string, int, error) {
	i := 0
	for i < len(cell) && cell[i] >= 'A' && cell[i] <= 'Z' {
		i++
	}
	if i == 0 || i == len(cell) {
		return "", 0, fmt.Errorf("malformed cell address %q", cell)
	}
	row, err := strconv.Atoi(cell[i:])
	if err != nil || row < 1 {
		return "", 0, fmt.Errorf("malformed cell address %q", cell)
	}
	return cell[:i], row, nil
}
