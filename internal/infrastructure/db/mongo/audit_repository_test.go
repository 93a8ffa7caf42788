package mongo

import "testing"

func TestListLimit(t *testing.T) {
	cases := []struct {
		in   int
		want int64
	}{
		{0, defaultListLimit},
		{-5, defaultListLimit},
		{1, 1},
		{250, 250},
		{maxListLimit, maxListLimit},
		{maxListLimit + 1, maxListLimit},
		{100000, maxListLimit},
	}
	for _, tc := range cases {
		if got := listLimit(tc.in); got != tc.want {
			t.Fatalf("listLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
