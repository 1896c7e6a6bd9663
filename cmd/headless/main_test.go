package main

import "testing"

func TestFormatCounts(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]int
		want string
	}{
		{name: "empty", in: nil, want: "-"},
		{name: "sorted", in: map[string]int{"patrol->chase": 3, "chase->search": 2}, want: "chase->search=2 patrol->chase=3"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatCounts(tc.in); got != tc.want {
				t.Fatalf("formatCounts() = %q, want %q", got, tc.want)
			}
		})
	}
}
