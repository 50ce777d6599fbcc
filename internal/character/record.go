// Package character builds the normalized character record from the raw
// field values read out of an exported sheet.
package character

import "fmt"

// Record is the normalized character record: attribute name to typed value
// (string, int, bool, or []string). Built once per run, never persisted.
type Record map[string]any

// Attribute names of the normalized record. Attributes absent from the
// source document are omitted from the record entirely, so a sparse export
// only ever touches the cells it actually carries values for.
const (
	AttrCharacterName    = "character_name"
	AttrClass            = "class"
	AttrSubclass         = "subclass"
	AttrLevel            = "level"
	AttrSpecies          = "species"
	AttrBackground       = "background"
	AttrXP               = "xp"
	AttrArmorClass       = "armor_class"
	AttrInitiative       = "initiative"
	AttrSpeed            = "speed"
	AttrHitPointsMax     = "hit_points_max"
	AttrHitDice          = "hit_dice"
	AttrProficiencyBonus = "proficiency_bonus"
	AttrSize             = "size"

	AttrPassivePerception    = "passive_perception"
	AttrPassiveInsight       = "passive_insight"
	AttrPassiveInvestigation = "passive_investigation"
	AttrPassiveAbilities     = "passive_abilities"

	AttrSkillProficiencies = "skill_proficiencies"
	AttrEquipment          = "equipment"
)

// Abilities in sheet order. Per-ability attributes are derived from these
// names: <ability>_score, <ability>_mod, <ability>_saving_throw and
// <ability>_proficiency.
var Abilities = []string{"strength", "dexterity", "constitution", "intelligence", "wisdom", "charisma"}

// ScoreAttr returns the ability-score attribute name for an ability
func ScoreAttr(ability string) string { return ability + "_score" }

// ModAttr returns the ability-modifier attribute name for an ability
func ModAttr(ability string) string { return ability + "_mod" }

// SavingThrowAttr returns the saving-throw attribute name for an ability
func SavingThrowAttr(ability string) string { return ability + "_saving_throw" }

// ProficiencyAttr returns the save-proficiency attribute name for an ability
func ProficiencyAttr(ability string) string { return ability + "_proficiency" }

// FieldFormatError indicates a numeric field carried text that does not
// parse as an integer. The run aborts rather than writing bad numbers.
type FieldFormatError struct {
	Field string
	Raw   string
}

// Error implements the error interface
func (e *FieldFormatError) Error() string {
	return fmt.Sprintf("field %q: cannot parse %q as a number", e.Field, e.Raw)
}
