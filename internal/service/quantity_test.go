package service

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in     string
		ok     bool
		value  float64
		suffix string
	}{
		{"2", true, 2, ""},
		{"2 cups", true, 2, "cups"},
		{"  1.5   cups ", true, 1.5, "cups"},
		{"1/2 tsp", true, 0.5, "tsp"},
		{"1 1/2 cups", true, 1.5, "cups"},
		{".25", true, 0.25, ""},
		{"3large eggs", true, 3, "large eggs"},
		{"a pinch", false, 0, ""},
		{"", false, 0, ""},
		{"1/0 cup", false, 0, ""},
		{"1.5.3", false, 0, ""},
		{"1 2", false, 0, ""},
		{"1/2/3 cup", false, 0, ""},
		{"to taste", false, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			q, ok := parseQuantity(tt.in)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.InDelta(t, tt.value, q.value, 1e-9)
			assert.Equal(t, tt.suffix, q.suffix)
		})
	}
}

func TestMergeQuantities(t *testing.T) {
	tests := []struct {
		a, b string
		want string
		ok   bool
	}{
		{"2", "3", "5", true},
		{"1 1/2 cups", "1/2 cups", "2 cups", true},
		{"2 Cups", "1 cups", "3 Cups", true},
		{"1/3", "1/3", "0.667", true},
		{"0.1", "0.2", "0.3", true},
		{"2 cups", "1 tbsp", "", false},
		{"2", "1 cup", "", false},
		{"a pinch", "1", "", false},
		{"1", "to taste", "", false},
		{"1.5.3", "1.5.3", "", false},
		{"1 2", "1 2", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"+"+tt.b, func(t *testing.T) {
			got, ok := mergeQuantities(tt.a, tt.b)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeQuantitiesProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.IntRange(0, 10000).Draw(t, "a")
		b := rapid.IntRange(0, 10000).Draw(t, "b")
		suffix := rapid.SampledFrom([]string{"", "cups", "tsp", "large eggs", "g"}).Draw(t, "suffix")

		format := func(tenths int) string {
			s := strconv.FormatFloat(float64(tenths)/10, 'f', -1, 64)
			if suffix != "" {
				s += " " + suffix
			}
			return s
		}

		ab, ok := mergeQuantities(format(a), format(b))
		if !ok {
			t.Fatalf("%q and %q should combine", format(a), format(b))
		}
		ba, _ := mergeQuantities(format(b), format(a))
		if ab != ba {
			t.Fatalf("merge is not commutative: %q vs %q", ab, ba)
		}
		if want := format(a + b); ab != want {
			t.Fatalf("merge(%q, %q) = %q, want %q", format(a), format(b), ab, want)
		}
	})
}
