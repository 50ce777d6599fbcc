package pdf

import (
	"errors"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Anchor lines of the D&D Beyond flattened export. Values sit at fixed line
// offsets from these anchors; the offsets below match the current export
// layout and hold across exports of the same template version.
const (
	anchorAbilitySaveDC = "ABILITY SAVE DC"
	anchorArmor         = "=== ARMOR ==="
	anchorResistances   = "Resistances"
	anchorPersonality   = "PERSONALITY TRAITS"
)

// anchorField addresses one value as (page, anchor line, line offset)
type anchorField struct {
	name   string
	page   int // zero-based page index
	anchor string
	offset int
}

var anchorFields = []anchorField{
	{"name", 0, anchorAbilitySaveDC, 1},
	{"class", 0, anchorAbilitySaveDC, 2},
	{"species", 0, anchorAbilitySaveDC, 4},
	{"background", 0, anchorAbilitySaveDC, 5},
	{"xp", 0, anchorAbilitySaveDC, 6},

	{"strength", 0, anchorAbilitySaveDC, 7},
	{"strength_mod", 0, anchorAbilitySaveDC, 8},
	{"dexterity", 0, anchorAbilitySaveDC, 9},
	{"dexterity_mod", 0, anchorAbilitySaveDC, 10},
	{"constitution", 0, anchorAbilitySaveDC, 11},
	{"constitution_mod", 0, anchorAbilitySaveDC, 12},
	{"intelligence", 0, anchorAbilitySaveDC, 13},
	{"intelligence_mod", 0, anchorAbilitySaveDC, 14},
	{"wisdom", 0, anchorAbilitySaveDC, 15},
	{"wisdom_mod", 0, anchorAbilitySaveDC, 16},
	{"charisma", 0, anchorAbilitySaveDC, 17},
	{"charisma_mod", 0, anchorAbilitySaveDC, 18},

	{"passive_perception", 0, anchorArmor, -11},
	{"passive_insight", 0, anchorArmor, -10},
	{"passive_investigation", 0, anchorArmor, -9},
	{"initiative", 0, anchorArmor, -7},
	{"armor_class", 0, anchorArmor, -6},
	{"proficiency_bonus", 0, anchorArmor, -5},
	{"speed", 0, anchorArmor, -4},
	{"hit_points_max", 0, anchorArmor, -3},
	{"hit_dice", 0, anchorArmor, -1},

	{"size", 3, anchorPersonality, 3},
}

// savingThrowStart is the line offset from the ability-save anchor where the
// saving-throw block begins; the block runs until the resistances anchor.
const savingThrowStart = 19

var abilityOrder = []string{"strength", "dexterity", "constitution", "intelligence", "wisdom", "charisma"}

// anchorPos is the located position of one anchor line
type anchorPos struct {
	page int
	line int
}

// TextAnchorExtractor reads flattened exports that carry no form fields.
// Page text is split into lines and values are addressed by their offset
// from known anchor lines.
type TextAnchorExtractor struct {
	maxFileSize int64
}

// NewTextAnchorExtractor creates a new text-anchor extractor
func NewTextAnchorExtractor(maxFileSize int64) *TextAnchorExtractor {
	return &TextAnchorExtractor{maxFileSize: maxFileSize}
}

// Extract reads the raw field map from the flattened export at path
func (e *TextAnchorExtractor) Extract(path string) (FieldMap, error) {
	if err := validateFile(path, e.maxFileSize); err != nil {
		return nil, err
	}

	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return nil, &DocumentReadError{Path: path, Err: err}
	}
	defer f.Close()

	pages := readPageLines(pdfReader)

	anchors := locateAnchors(pages)
	if len(anchors) == 0 {
		return nil, &DocumentReadError{Path: path, Err: errors.New("no anchor lines found; not a recognized character-sheet export")}
	}

	fields := e.fieldsFromLines(pages, anchors)
	e.scanSavingThrows(pages, anchors, fields)

	return fields, nil
}

// fieldsFromLines resolves each anchored field to its line of text. A field
// whose anchor or line is absent is simply not emitted; the mapper applies
// its documented default.
func (e *TextAnchorExtractor) fieldsFromLines(pages [][]string, anchors map[string]anchorPos) FieldMap {
	fields := make(FieldMap)

	for _, af := range anchorFields {
		pos, ok := anchors[af.anchor]
		if !ok || pos.page != af.page {
			continue
		}
		index := pos.line + af.offset
		if af.page >= len(pages) || index < 0 || index >= len(pages[af.page]) {
			continue
		}
		fields[af.name] = TextValue(strings.TrimSpace(pages[af.page][index]))
	}

	return fields
}

// scanSavingThrows walks the block between the saving-throw start and the
// resistances anchor. A bullet line marks the next ability as proficient and
// its modifier follows on the next line; abilities without a bullet just
// carry their modifier line.
func (e *TextAnchorExtractor) scanSavingThrows(pages [][]string, anchors map[string]anchorPos, fields FieldMap) {
	start, ok := anchors[anchorAbilitySaveDC]
	if !ok {
		return
	}
	end, ok := anchors[anchorResistances]
	if !ok || end.page != start.page || start.page >= len(pages) {
		return
	}

	for _, ability := range abilityOrder {
		fields[ability+"_proficiency"] = CheckboxValue(false)
	}

	lines := pages[start.page]
	remaining := append([]string(nil), abilityOrder...)
	current := ""

	for i := start.line + savingThrowStart; i < end.line && i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "•" {
			if len(remaining) == 0 {
				break
			}
			current, remaining = remaining[0], remaining[1:]
			fields[current+"_proficiency"] = CheckboxValue(true)
			continue
		}
		if current == "" {
			if len(remaining) == 0 {
				break
			}
			current, remaining = remaining[0], remaining[1:]
		}
		fields[current+"_saving_throw"] = TextValue(line)
		current = ""
	}
}

// readPageLines extracts the text of every page as ordered lines
func readPageLines(pdfReader *pdf.Reader) [][]string {
	pages := make([][]string, 0, pdfReader.NumPage())

	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			pages = append(pages, nil)
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			// Continue with other pages even if one fails
			pages = append(pages, nil)
			continue
		}

		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			var builder strings.Builder
			for _, text := range row.Content {
				builder.WriteString(text.S)
			}
			lines = append(lines, builder.String())
		}
		pages = append(pages, lines)
	}

	return pages
}

// locateAnchors finds the first occurrence of each anchor line
func locateAnchors(pages [][]string) map[string]anchorPos {
	anchors := make(map[string]anchorPos)
	targets := []string{anchorAbilitySaveDC, anchorArmor, anchorResistances, anchorPersonality}

	for _, target := range targets {
		if pos, ok := findLine(target, pages); ok {
			anchors[target] = pos
		}
	}

	return anchors
}

// findLine returns the page and line index of the first line containing target
func findLine(target string, pages [][]string) (anchorPos, bool) {
	for pageIndex, lines := range pages {
		for lineIndex, line := range lines {
			if strings.Contains(line, target) {
				return anchorPos{page: pageIndex, line: lineIndex}, true
			}
		}
	}
	return anchorPos{}, false
}
