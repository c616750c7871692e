package scoring

import (
	"math"
	"strings"
)

// DefaultLengthPenaltyCap bounds the length-difference penalty.
const DefaultLengthPenaltyCap = 25

const (
	lengthPenaltyPerChar = 5
	affixPointsPerChar   = 2
	prefixBonusCap       = 20
	suffixBonusCap       = 15
	lexicalFloor         = 5
	firstCharBonus       = 5
	lastCharBonus        = 3
)

// Lexical scores the string similarity of a and b on a 0-100 scale using the
// default length penalty cap.
func Lexical(a, b string) int {
	return LexicalWithCap(a, b, DefaultLengthPenaltyCap)
}

// LexicalWithCap is Lexical with an explicit length penalty cap.
//
// Score = multiset char overlap % - length penalty + prefix/suffix bonuses,
// floored at 5, plus first/last character bonuses, clamped to [0,100].
func LexicalWithCap(a, b string, penaltyCap int) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	if string(ra) == string(rb) {
		return 100
	}

	longest := max(len(ra), len(rb))
	penalty := min(abs(len(ra)-len(rb))*lengthPenaltyPerChar, penaltyCap)

	pool := make(map[rune]int, len(rb))
	for _, r := range rb {
		pool[r]++
	}
	common := 0
	for _, r := range ra {
		if pool[r] > 0 {
			pool[r]--
			common++
		}
	}
	charSimilarity := float64(common) / float64(longest) * 100

	prefix := 0
	for i := 0; i < len(ra) && i < len(rb) && ra[i] == rb[i]; i++ {
		prefix++
	}
	suffix := 0
	for i, j := len(ra)-1, len(rb)-1; i >= 0 && j >= 0 && ra[i] == rb[j]; i, j = i-1, j-1 {
		suffix++
	}

	raw := charSimilarity - float64(penalty) +
		float64(min(prefix*affixPointsPerChar, prefixBonusCap)) +
		float64(min(suffix*affixPointsPerChar, suffixBonusCap))
	raw = math.Max(raw, lexicalFloor)

	if len(ra) > 0 && len(rb) > 0 {
		if ra[0] == rb[0] {
			raw += firstCharBonus
		}
		if ra[len(ra)-1] == rb[len(rb)-1] {
			raw += lastCharBonus
		}
	}
	return clampRound(raw)
}

func clampRound(v float64) int {
	return int(math.Round(math.Min(100, math.Max(0, v))))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
