package charsheet

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSkills decodes the blob produced by the in-page serializer.
//
// The blob format is a contract with the extraction script: rows are
// joined by ";", fields within a row by ",". The first field is the
// skill label, the second the signed modifier. Any row with fewer than
// two fields or a non-integer modifier fails the whole parse, there
// are no partial results.
func ParseSkills(blob string) (CharacterSheet, error) {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return nil, ErrEmptySkillList
	}

	sheet := CharacterSheet{}
	for _, row := range strings.Split(blob, ";") {
		fields := strings.Split(row, ",")
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: %q", ErrParse, row)
		}
		name := fields[0]
		modifier, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrParse, row, err)
		}
		sheet[name] = modifier
	}

	if len(sheet) == 0 {
		return nil, ErrEmptySkillList
	}
	return sheet, nil
}
