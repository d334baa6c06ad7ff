package scanner

import (
	"sort"
	"strconv"
	"unicode"
)

// Order rearranges entry names before they are scanned. A nil Order keeps
// the order the filesystem listed them in.
type Order func(names []string)

// ByName sorts names lexically
func ByName(names []string) {
	sort.Strings(names)
}

// Natural sorts names treating digit runs as numbers, so "img2" comes before "img10"
func Natural(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return naturalLess(names[i], names[j])
	})
}

// OrderFor maps a configured sort mode to an Order
func OrderFor(mode string) Order {
	switch mode {
	case "name":
		return ByName
	case "natural":
		return Natural
	default:
		return nil
	}
}

// naturalLess compares strings in a way that treats numbers as numbers rather than characters
// For example: "file2" < "file10" when using naturalLess
func naturalLess(s1, s2 string) bool {
	i, j := 0, 0
	for i < len(s1) && j < len(s2) {
		// Skip leading spaces
		for i < len(s1) && unicode.IsSpace(rune(s1[i])) {
			i++
		}
		for j < len(s2) && unicode.IsSpace(rune(s2[j])) {
			j++
		}

		if i >= len(s1) || j >= len(s2) {
			break
		}

		if isDigit(s1[i]) && isDigit(s2[j]) {
			start1 := i
			for i < len(s1) && isDigit(s1[i]) {
				i++
			}
			start2 := j
			for j < len(s2) && isDigit(s2[j]) {
				j++
			}

			n1, err1 := strconv.ParseUint(s1[start1:i], 10, 64)
			n2, err2 := strconv.ParseUint(s2[start2:j], 10, 64)
			if err1 == nil && err2 == nil && n1 != n2 {
				return n1 < n2
			}
			// Overflowing runs fall back to comparing their text
			if err1 != nil || err2 != nil {
				if a, b := s1[start1:i], s2[start2:j]; a != b {
					if len(a) != len(b) {
						return len(a) < len(b)
					}
					return a < b
				}
			}
		} else {
			if s1[i] != s2[j] {
				return s1[i] < s2[j]
			}
			i++
			j++
		}
	}

	// If we've reached the end of one string but not the other
	return len(s1)-i < len(s2)-j
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
