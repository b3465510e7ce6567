package configmapper

import (
	"regexp"
	"strings"
)

// An element is an optional double-quoted segment, then an optional
// unquoted segment, then a comma.  The quoted segment wins when both
// are present.
var (
	quotedArrayRE = regexp.MustCompile(`(?s)^\s*(?:"(?P<quoted>.*?)")?(?P<value>.*?),(?P<rest>.*)$`)
	quotedLastRE  = regexp.MustCompile(`(?s)^\s*"(?P<quoted>[^"]*)"\s*$`)
)

// splitArray breaks a comma separated list into its trimmed elements.
// Commas inside double quotes do not split.  A blank list has no
// elements.
func splitArray(input string) []string {
	if strings.TrimSpace(input) == "" {
		return []string{}
	}
	var elements []string
	quoted := quotedArrayRE.SubexpIndex("quoted")
	value := quotedArrayRE.SubexpIndex("value")
	rest := quotedArrayRE.SubexpIndex("rest")
	for {
		if m := quotedLastRE.FindStringSubmatch(input); m != nil {
			return append(elements, strings.TrimSpace(m[1]))
		}
		m := quotedArrayRE.FindStringSubmatchIndex(input)
		if m == nil {
			break
		}
		if m[2*quoted] >= 0 {
			elements = append(elements, strings.TrimSpace(input[m[2*quoted]:m[2*quoted+1]]))
		} else {
			elements = append(elements, strings.TrimSpace(input[m[2*value]:m[2*value+1]]))
		}
		input = input[m[2*rest]:m[2*rest+1]]
		if input == "" {
			break
		}
	}
	return append(elements, strings.TrimSpace(input))
}
