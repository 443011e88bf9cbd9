// Copyright (c) 2026 Fermata. All rights reserved.

package names_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fermata-app/fermata/pkg/names"
)

/*
TestIsJapanese classifies names by their first rune only.
*/
func TestIsJapanese(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		japanese bool
	}{
		{"hiragana", "さくら", true},
		{"katakana", "アルベニス", true},
		{"kanji", "武満徹", true},
		{"latin", "Isaac Albéniz", false},
		{"latin_then_kana", "Op.1 タンゴ", false},
		{"kana_then_latin", "ソナタ K.322", true},
		{"accented_latin", "Élégie", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.japanese, names.IsJapanese(tt.input))
		})
	}
}

/*
TestJapanese_SortedSmallest picks the code-point-smallest Japanese name
regardless of insertion order.
*/
func TestJapanese_SortedSmallest(t *testing.T) {
	got, ok := names.Japanese([]string{"イサーク・アルベニス", "アルベニス"})
	assert.True(t, ok)
	assert.Equal(t, "アルベニス", got)

	// Same result with the insertion order reversed.
	got, ok = names.Japanese([]string{"アルベニス", "イサーク・アルベニス"})
	assert.True(t, ok)
	assert.Equal(t, "アルベニス", got)

	_, ok = names.Japanese([]string{"Isaac Albéniz"})
	assert.False(t, ok)

	_, ok = names.Japanese(nil)
	assert.False(t, ok)
}

/*
TestWestern_SortedSmallest picks the code-point-smallest Western name.
*/
func TestWestern_SortedSmallest(t *testing.T) {
	got, ok := names.Western([]string{"Isaac Albéniz", "Albéniz", "アルベニス"})
	assert.True(t, ok)
	assert.Equal(t, "Albéniz", got)

	_, ok = names.Western([]string{"アルベニス"})
	assert.False(t, ok)
}

/*
TestMain_MixedScripts covers the canonical Albéniz fixture in both languages.
*/
func TestMain_MixedScripts(t *testing.T) {
	list := []string{"アルベニス", "イサーク・アルベニス", "Isaac Albéniz"}

	assert.Equal(t, "アルベニス", names.Main(list, names.LangJA))
	assert.Equal(t, "Isaac Albéniz", names.Main(list, names.LangEN))
}

/*
TestMain_Fallback returns the FIRST element of the original list — not the
sorted minimum — when no name of the requested script exists.
*/
func TestMain_Fallback(t *testing.T) {
	// "Zarabanda" sorts after "Courante"; the fallback must still be
	// "Zarabanda" because it was inserted first.
	list := []string{"Zarabanda", "Courante"}
	assert.Equal(t, "Zarabanda", names.Main(list, names.LangJA))

	// Mirror case for the Western request.
	kana := []string{"ソナタ", "アリア"}
	assert.Equal(t, "ソナタ", names.Main(kana, names.LangEN))

	assert.Equal(t, "", names.Main(nil, names.LangJA))
	assert.Equal(t, "", names.Main([]string{}, names.LangEN))
}

/*
TestNormalize folds decomposed input into NFC so equal names compare equal.
*/
func TestNormalize(t *testing.T) {
	composed := "Albéniz" // NFC, U+00E9
	decomposed := "Albéniz" // e + combining acute

	assert.NotEqual(t, composed, decomposed)
	assert.Equal(t, composed, names.Normalize(decomposed))
	assert.Equal(t, composed, names.Normalize(composed))
}
