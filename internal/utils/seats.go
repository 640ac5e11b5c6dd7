package utils

import (
	"sort"
	"strconv"
	"strings"
)

// SortSeats returns an ascending copy and whether the input held duplicates.
// Ascending order doubles as the fixed lock order for multi-seat claims.
func SortSeats(seats []int) ([]int, bool) {
	out := make([]int, len(seats))
	copy(out, seats)
	sort.Ints(out)
	for i := 1; i < len(out); i++ {
		if out[i] == out[i-1] {
			return out, true
		}
	}
	return out, false
}

// JoinSeats renders seat numbers as "1,2,3" for logs and documents.
func JoinSeats(seats []int) string {
	parts := make([]string, 0, len(seats))
	for _, s := range seats {
		parts = append(parts, strconv.Itoa(s))
	}
	return strings.Join(parts, ",")
}

// ParseSeatList splits a comma/semicolon separated seat string into numbers,
// skipping blanks. Non-numeric entries are reported via ok=false.
func ParseSeatList(raw string) ([]int, bool) {
	out := []int{}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return out, false
		}
		out = append(out, n)
	}
	return out, true
}
