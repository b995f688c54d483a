// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package searchfold_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harutoki/tsundoku/pkg/searchfold"
)

/*
TestFold verifies the normalization pipeline: accents stripped,
lowercased, whitespace collapsed.
*/
func TestFold(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "BERSERK", "berserk"},
		{"accents", "Möbius Strip", "mobius strip"},
		{"whitespace_collapse", "  One   Piece  ", "one piece"},
		{"japanese_untouched", "進撃の巨人", "進撃の巨人"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, searchfold.Fold(tt.input))
		})
	}
}

/*
TestContains checks substring matching after folding on both sides.
*/
func TestContains(t *testing.T) {
	assert.True(t, searchfold.Contains("Vagabond", "VAGA"))
	assert.True(t, searchfold.Contains("Café Society", "cafe"))
	assert.True(t, searchfold.Contains("anything", ""))
	assert.False(t, searchfold.Contains("Naruto", "bleach"))
}
