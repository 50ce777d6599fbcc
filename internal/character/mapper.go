package character

import (
	"fmt"
	"strconv"
	"strings"

	"charsync/internal/pdf"
)

// kind is the coercion applied to a raw field value
type kind int

const (
	kindString kind = iota
	kindInt
	kindBool
	kindList
)

// binding sources one record attribute from one or more raw field names.
// Sources list both namespaces: AcroForm field names of the interactive
// export first, then the canonical names of the text-anchor extractor. For
// scalar kinds the first present source wins; for lists every present source
// contributes in order.
type binding struct {
	attr      string
	kind      kind
	sources   []string
	transform func(string) string
}

var bindings = []binding{
	{attr: AttrCharacterName, kind: kindString, sources: []string{"CharacterName", "name"}},
	{attr: AttrClass, kind: kindString, sources: []string{"ClassLevel", "class"}, transform: firstToken},
	{attr: AttrLevel, kind: kindInt, sources: []string{"ClassLevel", "class"}, transform: lastToken},
	{attr: AttrSubclass, kind: kindString, sources: []string{"Subclass", "subclass"}},
	{attr: AttrSpecies, kind: kindString, sources: []string{"Race ", "species"}},
	{attr: AttrBackground, kind: kindString, sources: []string{"Background", "background"}},
	{attr: AttrXP, kind: kindInt, sources: []string{"XP", "xp"}},

	{attr: AttrArmorClass, kind: kindInt, sources: []string{"AC", "armor_class"}},
	{attr: AttrInitiative, kind: kindString, sources: []string{"Init", "initiative"}},
	{attr: AttrSpeed, kind: kindString, sources: []string{"Speed", "speed"}},
	{attr: AttrHitPointsMax, kind: kindInt, sources: []string{"HPMax", "hit_points_max"}},
	{attr: AttrHitDice, kind: kindString, sources: []string{"HD", "hit_dice"}},
	{attr: AttrProficiencyBonus, kind: kindInt, sources: []string{"ProfBonus", "proficiency_bonus"}},
	{attr: AttrSize, kind: kindString, sources: []string{"Size", "size"}},

	{attr: AttrPassivePerception, kind: kindInt, sources: []string{"Passive", "passive_perception"}},
	{attr: AttrPassiveInsight, kind: kindInt, sources: []string{"PassiveInsight", "passive_insight"}},
	{attr: AttrPassiveInvestigation, kind: kindInt, sources: []string{"PassiveInvestigation", "passive_investigation"}},

	{attr: AttrSkillProficiencies, kind: kindList, sources: []string{"SkillProficiencies", "skill_proficiencies"}},
	{attr: AttrEquipment, kind: kindList, sources: []string{"Equipment 1", "Equipment 2", "Equipment 3", "equipment"}},
}

// Check Box 11..16 are the save-proficiency checkbox names of the
// interactive export, in ability order.
var abilityBindings = func() []binding {
	formScores := []string{"STR", "DEX", "CON", "INT", "WIS", "CHA"}
	formSaves := []string{"ST Strength", "ST Dexterity", "ST Constitution", "ST Intelligence", "ST Wisdom", "ST Charisma"}

	var bs []binding
	for i, ability := range Abilities {
		bs = append(bs,
			binding{attr: ScoreAttr(ability), kind: kindInt, sources: []string{formScores[i], ability}},
			binding{attr: ModAttr(ability), kind: kindString, sources: []string{formScores[i] + "mod", ability + "_mod"}},
			binding{attr: SavingThrowAttr(ability), kind: kindString, sources: []string{formSaves[i], ability + "_saving_throw"}},
			binding{attr: ProficiencyAttr(ability), kind: kindBool, sources: []string{fmt.Sprintf("Check Box %d", 11+i), ability + "_proficiency"}},
		)
	}
	return bs
}()

// Mapper converts a raw field map into the normalized character record
type Mapper struct{}

// NewMapper creates a new field mapper
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map builds the normalized record. Attributes whose source fields are all
// absent from the document are omitted; a source field that is present but
// unfilled yields the attribute's zero default. Unparseable numeric text
// aborts with FieldFormatError.
func (m *Mapper) Map(fields pdf.FieldMap) (Record, error) {
	record := make(Record)

	for _, b := range append(bindings, abilityBindings...) {
		if err := m.apply(fields, b, record); err != nil {
			return nil, err
		}
	}

	m.derivePassiveAbilities(record)

	return record, nil
}

// apply resolves a single binding against the raw field map
func (m *Mapper) apply(fields pdf.FieldMap, b binding, record Record) error {
	if b.kind == kindList {
		items := m.collectList(fields, b)
		if len(items) > 0 {
			record[b.attr] = items
		}
		return nil
	}

	name, value, ok := firstPresent(fields, b.sources)
	if !ok {
		return nil
	}

	switch b.kind {
	case kindBool:
		record[b.attr] = parseBool(value)
	case kindInt:
		raw := strings.TrimSpace(value.Text)
		if b.transform != nil {
			raw = b.transform(raw)
		}
		if raw == "" {
			record[b.attr] = 0
			return nil
		}
		n, err := parseInt(raw)
		if err != nil {
			return &FieldFormatError{Field: name, Raw: raw}
		}
		record[b.attr] = n
	default:
		raw := strings.TrimSpace(value.Text)
		if b.transform != nil {
			raw = b.transform(raw)
		}
		record[b.attr] = raw
	}

	return nil
}

// collectList concatenates every present source in source order. Multi-line
// field values contribute one item per line.
func (m *Mapper) collectList(fields pdf.FieldMap, b binding) []string {
	var items []string
	for _, source := range b.sources {
		value, ok := fields[source]
		if !ok {
			continue
		}
		for _, line := range strings.Split(value.Text, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				items = append(items, line)
			}
		}
	}
	return items
}

// derivePassiveAbilities folds the three passive senses into the combined
// cell value the template tracks
func (m *Mapper) derivePassiveAbilities(record Record) {
	per, okPer := record[AttrPassivePerception].(int)
	ins, okIns := record[AttrPassiveInsight].(int)
	inv, okInv := record[AttrPassiveInvestigation].(int)
	if !okPer && !okIns && !okInv {
		return
	}
	record[AttrPassiveAbilities] = fmt.Sprintf("PER:%d, INS:%d, INV:%d", per, ins, inv)
}

func firstPresent(fields pdf.FieldMap, sources []string) (string, pdf.Value, bool) {
	for _, source := range sources {
		if value, ok := fields[source]; ok {
			return source, value, true
		}
	}
	return "", pdf.Value{}, false
}

// parseInt accepts the numeric formats the exports produce: optional
// leading +, thousands separators in XP values.
func parseInt(raw string) (int, error) {
	cleaned := strings.TrimPrefix(raw, "+")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	return strconv.Atoi(cleaned)
}

func parseBool(value pdf.Value) bool {
	if value.Type == pdf.FieldTypeCheckbox {
		return value.Checked
	}
	switch strings.TrimSpace(value.Text) {
	case "Yes", "On", "True", "true", "X", "x":
		return true
	}
	return false
}

func firstToken(s string) string {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

func lastToken(s string) string {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}
