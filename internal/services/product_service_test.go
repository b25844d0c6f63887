package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Wireless Headphones":      "wireless-headphones",
		"  Spaced  Out  ":          "spaced-out",
		"Café & Croissant!":        "caf-croissant",
		"UPPER-case":               "upper-case",
		"already-a-slug":           "already-a-slug",
		"100% Cotton T-Shirt (XL)": "100-cotton-t-shirt-xl",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}
