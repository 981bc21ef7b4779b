package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Dune Messiah", "dune-messiah"},
		{"slow_burn", "slow-burn"},
		{"SLOW-BURN", "slow-burn"},
		{"🐉 Dragons!", "dragons"},
		{"  multi   word ", "multi-word"},
		{"--leading--", "leading"},
		{"a/b/c", "a-b-c"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.input), "input %q", tt.input)
	}
}
