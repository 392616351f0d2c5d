package charsheet

import (
	"sort"

	"github.com/antzucaro/matchr"
)

// ResolveSkill finds the skill whose label is closest to the typed name
// under Damerau-Levenshtein distance (insertions, deletions,
// substitutions and adjacent transpositions all cost 1, case
// sensitive). Labels are visited in lexicographic order, so when
// several are equidistant the smallest one wins deterministically.
//
// Pure function, the sheet is never mutated.
func ResolveSkill(sheet CharacterSheet, typed string) (string, int, error) {
	if len(sheet) == 0 {
		return "", 0, ErrEmptySkillList
	}

	names := make([]string, 0, len(sheet))
	for name := range sheet {
		names = append(names, name)
	}
	sort.Strings(names)

	best := names[0]
	bestDistance := matchr.DamerauLevenshtein(typed, best)
	for _, name := range names[1:] {
		distance := matchr.DamerauLevenshtein(typed, name)
		if distance < bestDistance {
			best = name
			bestDistance = distance
		}
	}

	return best, sheet[best], nil
}
