package atspi

import (
	"os"
	"strings"

	golocale "github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
)

// LocaleCategory indexes the categories accepted by Application.GetLocale.
type LocaleCategory uint32

const (
	LocaleMessages LocaleCategory = iota
	LocaleCollate
	LocaleCType
	LocaleMonetary
	LocaleNumeric
	LocaleTime

	localeCategoryCount
)

var localeEnvNames = [localeCategoryCount]string{
	"LC_MESSAGES", "LC_COLLATE", "LC_CTYPE", "LC_MONETARY", "LC_NUMERIC", "LC_TIME",
}

func (c LocaleCategory) valid() bool {
	return c < localeCategoryCount
}

// localeResolver answers locale queries the way setlocale(cat, NULL) would
// after setlocale(LC_ALL, "").
type localeResolver struct {
	getenv   func(string) string
	osLocale func() (string, error)
}

func defaultLocaleResolver() localeResolver {
	return localeResolver{getenv: os.Getenv, osLocale: golocale.GetLocale}
}

func (r localeResolver) locale(c LocaleCategory) string {
	for _, name := range []string{"LC_ALL", localeEnvNames[c], "LANG"} {
		if v := r.getenv(name); v != "" {
			return v
		}
	}
	if r.osLocale != nil {
		if tag, err := r.osLocale(); err == nil && tag != "" {
			if v := posixLocale(tag); v != "" {
				return v
			}
		}
	}
	return "C"
}

// posixLocale turns a BCP 47 tag such as en-US into en_US.
func posixLocale(tag string) string {
	t, err := language.Parse(strings.ReplaceAll(tag, "_", "-"))
	if err != nil {
		return ""
	}
	base, conf := t.Base()
	if conf == language.No {
		return ""
	}
	region, conf := t.Region()
	if conf != language.Exact {
		return base.String()
	}
	return base.String() + "_" + region.String()
}
