package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticExport builds page lines shaped like a flattened export: the
// ability-save anchor block, a saving-throw block ending at the resistances
// anchor, and the armor block addressed by negative offsets.
func syntheticExport() [][]string {
	page0 := []string{
		"D&D BEYOND",              // 0
		"ABILITY SAVE DC",         // 1  anchor
		"Aria Stormwind",          // 2  name
		"Wizard 5",                // 3  class + level
		"filler",                  // 4
		"Elf",                     // 5  species
		"Sage",                    // 6  background
		"6,500",                   // 7  xp
		"14",                      // 8  strength
		"+2",                      // 9  strength_mod
		"18",                      // 10 dexterity
		"+4",                      // 11 dexterity_mod
		"12",                      // 12 constitution
		"+1",                      // 13 constitution_mod
		"16",                      // 14 intelligence
		"+3",                      // 15 intelligence_mod
		"10",                      // 16 wisdom
		"+0",                      // 17 wisdom_mod
		"8",                       // 18 charisma
		"-1",                      // 19 charisma_mod
		"+2",                      // 20 strength save (no bullet)
		"+4",                      // 21 dexterity save
		"+1",                      // 22 constitution save
		"•",                       // 23 bullet: intelligence proficient
		"+6",                      // 24 intelligence save
		"•",                       // 25 bullet: wisdom proficient
		"+3",                      // 26 wisdom save
		"-1",                      // 27 charisma save
		"Resistances",             // 28 anchor
		"15",                      // 29 passive_perception (armor -11)
		"13",                      // 30 passive_insight
		"16",                      // 31 passive_investigation
		"filler",                  // 32
		"+4",                      // 33 initiative
		"12",                      // 34 armor_class
		"+3",                      // 35 proficiency_bonus
		"30 ft.",                  // 36 speed
		"28",                      // 37 hit_points_max
		"filler",                  // 38
		"5d6",                     // 39 hit_dice
		"=== ARMOR ===",           // 40 anchor
	}
	page3 := []string{
		"PERSONALITY TRAITS", // 0 anchor
		"filler",             // 1
		"filler",             // 2
		"Medium",             // 3 size
	}
	return [][]string{page0, nil, nil, page3}
}

func TestFindLine(t *testing.T) {
	pages := syntheticExport()

	pos, ok := findLine("ABILITY SAVE DC", pages)
	require.True(t, ok)
	assert.Equal(t, anchorPos{page: 0, line: 1}, pos)

	pos, ok = findLine("PERSONALITY TRAITS", pages)
	require.True(t, ok)
	assert.Equal(t, anchorPos{page: 3, line: 0}, pos)

	_, ok = findLine("SPELLCASTING", pages)
	assert.False(t, ok)
}

func TestLocateAnchors(t *testing.T) {
	anchors := locateAnchors(syntheticExport())

	assert.Len(t, anchors, 4)
	assert.Equal(t, anchorPos{page: 0, line: 1}, anchors[anchorAbilitySaveDC])
	assert.Equal(t, anchorPos{page: 0, line: 40}, anchors[anchorArmor])
	assert.Equal(t, anchorPos{page: 0, line: 28}, anchors[anchorResistances])
	assert.Equal(t, anchorPos{page: 3, line: 0}, anchors[anchorPersonality])
}

func TestTextAnchorExtractor_FieldsFromLines(t *testing.T) {
	pages := syntheticExport()
	extractor := NewTextAnchorExtractor(testMaxFileSize)

	fields := extractor.fieldsFromLines(pages, locateAnchors(pages))

	want := map[string]string{
		"name":                  "Aria Stormwind",
		"class":                 "Wizard 5",
		"species":               "Elf",
		"background":            "Sage",
		"xp":                    "6,500",
		"strength":              "14",
		"strength_mod":          "+2",
		"dexterity":             "18",
		"charisma_mod":          "-1",
		"passive_perception":    "15",
		"passive_insight":       "13",
		"passive_investigation": "16",
		"initiative":            "+4",
		"armor_class":           "12",
		"proficiency_bonus":     "+3",
		"speed":                 "30 ft.",
		"hit_points_max":        "28",
		"hit_dice":              "5d6",
		"size":                  "Medium",
	}
	for name, text := range want {
		value, ok := fields[name]
		require.True(t, ok, "field %s should be extracted", name)
		assert.Equal(t, text, value.Text, "field %s", name)
	}
}

func TestTextAnchorExtractor_MissingAnchorSkipsFields(t *testing.T) {
	pages := syntheticExport()
	pages[3] = nil // drop the personality page

	extractor := NewTextAnchorExtractor(testMaxFileSize)
	fields := extractor.fieldsFromLines(pages, locateAnchors(pages))

	_, ok := fields["size"]
	assert.False(t, ok, "size has no anchor and must be skipped, not defaulted here")
	_, ok = fields["name"]
	assert.True(t, ok)
}

func TestTextAnchorExtractor_ScanSavingThrows(t *testing.T) {
	pages := syntheticExport()
	extractor := NewTextAnchorExtractor(testMaxFileSize)
	anchors := locateAnchors(pages)

	fields := make(FieldMap)
	extractor.scanSavingThrows(pages, anchors, fields)

	assert.Equal(t, CheckboxValue(false), fields["strength_proficiency"])
	assert.Equal(t, CheckboxValue(false), fields["dexterity_proficiency"])
	assert.Equal(t, CheckboxValue(false), fields["constitution_proficiency"])
	assert.Equal(t, CheckboxValue(true), fields["intelligence_proficiency"])
	assert.Equal(t, CheckboxValue(true), fields["wisdom_proficiency"])
	assert.Equal(t, CheckboxValue(false), fields["charisma_proficiency"])

	assert.Equal(t, "+2", fields["strength_saving_throw"].Text)
	assert.Equal(t, "+4", fields["dexterity_saving_throw"].Text)
	assert.Equal(t, "+1", fields["constitution_saving_throw"].Text)
	assert.Equal(t, "+6", fields["intelligence_saving_throw"].Text)
	assert.Equal(t, "+3", fields["wisdom_saving_throw"].Text)
	assert.Equal(t, "-1", fields["charisma_saving_throw"].Text)
}

func TestTextAnchorExtractor_MissingFile(t *testing.T) {
	extractor := NewTextAnchorExtractor(testMaxFileSize)

	_, err := extractor.Extract("absent.pdf")

	var docErr *DocumentReadError
	require.ErrorAs(t, err, &docErr)
}
