package atspi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocaleResolver(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		osLocale string
		category LocaleCategory
		want     string
	}{
		{"LC_ALL wins", map[string]string{"LC_ALL": "fr_FR.UTF-8", "LC_TIME": "en_GB", "LANG": "de_DE"}, "", LocaleTime, "fr_FR.UTF-8"},
		{"category variable", map[string]string{"LC_NUMERIC": "pt_BR", "LANG": "de_DE"}, "", LocaleNumeric, "pt_BR"},
		{"other category falls back to LANG", map[string]string{"LC_NUMERIC": "pt_BR", "LANG": "de_DE"}, "", LocaleMonetary, "de_DE"},
		{"os locale", nil, "en-US", LocaleMessages, "en_US"},
		{"os locale without region", nil, "ja", LocaleCollate, "ja"},
		{"nothing set", nil, "", LocaleCType, "C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := localeResolver{
				getenv: func(name string) string { return tt.env[name] },
				osLocale: func() (string, error) {
					if tt.osLocale == "" {
						return "", errors.New("unknown")
					}
					return tt.osLocale, nil
				},
			}
			assert.Equal(t, tt.want, r.locale(tt.category))
		})
	}
}

func TestLocaleCategory_Valid(t *testing.T) {
	assert.True(t, LocaleMessages.valid())
	assert.True(t, LocaleTime.valid())
	assert.False(t, LocaleCategory(6).valid())
}

func TestPosixLocale(t *testing.T) {
	assert.Equal(t, "en_US", posixLocale("en_US"))
	assert.Equal(t, "sr_RS", posixLocale("sr-Latn-RS"))
	assert.Equal(t, "", posixLocale("!!"))
}
