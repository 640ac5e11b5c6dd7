package utils

import "testing"

func TestSortSeatsDetectsDuplicates(t *testing.T) {
	sorted, dup := SortSeats([]int{3, 1, 2})
	if dup {
		t.Fatalf("no duplicates expected")
	}
	if sorted[0] != 1 || sorted[1] != 2 || sorted[2] != 3 {
		t.Fatalf("not sorted: %v", sorted)
	}

	if _, dup := SortSeats([]int{1, 2, 1}); !dup {
		t.Fatalf("duplicate not detected")
	}
}

func TestParseSeatList(t *testing.T) {
	seats, ok := ParseSeatList("1, 2;3")
	if !ok || len(seats) != 3 {
		t.Fatalf("parse failed: %v ok=%v", seats, ok)
	}

	if _, ok := ParseSeatList("1,x"); ok {
		t.Fatalf("non-numeric entry should fail")
	}

	if seats, ok := ParseSeatList(""); !ok || len(seats) != 0 {
		t.Fatalf("empty input should parse to empty list")
	}
}

func TestJoinSeats(t *testing.T) {
	if got := JoinSeats([]int{1, 2, 10}); got != "1,2,10" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatRupiah(t *testing.T) {
	if got := FormatRupiah(150_000); got != "Rp150.000" {
		t.Fatalf("got %q", got)
	}
	if got := FormatRupiah(-1_000_000); got != "-Rp1.000.000" {
		t.Fatalf("got %q", got)
	}
}
