package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguages(t *testing.T) {
	assert.Equal(t, []Language{"en", "es", "fr", "de", "hi"}, Languages())
	assert.Equal(t, English, DefaultLanguage)
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want Language
		ok   bool
	}{
		{"en", English, true},
		{" FR ", French, true},
		{"hi", Hindi, true},
		{"", English, true},
		{"it", Language("it"), false},
		{"english", Language("english"), false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLanguage(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestLanguage_Supported(t *testing.T) {
	assert.True(t, German.Supported())
	assert.False(t, Language("xx").Supported())
}
