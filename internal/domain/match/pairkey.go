package match

import "strings"

// PairKey derives the identity of a match from the two user ids, independent
// of which side created it. Both clients compute the same key with no
// coordination, so the match row can be keyed on it directly.
func PairKey(userA, userB string) string {
	a, b := SortPair(userA, userB)
	return a + "_" + b
}

// SortPair returns the two ids in lexicographic order.
func SortPair(userA, userB string) (string, string) {
	if strings.Compare(userA, userB) > 0 {
		return userB, userA
	}
	return userA, userB
}
