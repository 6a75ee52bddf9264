// Package i18n holds the storefront's en/ja message catalog.
package i18n

import (
	"golang.org/x/text/language"
)

const (
	English  = "en"
	Japanese = "ja"
)

var supported = []language.Tag{language.English, language.Japanese}

// Catalog is built once at startup and only read afterwards.
type Catalog struct {
	messages map[string]map[string]string
	matcher  language.Matcher
	fallback string
}

func NewCatalog(fallback string) *Catalog {
	if !Supported(fallback) {
		fallback = English
	}
	return &Catalog{
		messages: map[string]map[string]string{
			English:  english,
			Japanese: japanese,
		},
		matcher:  language.NewMatcher(supported),
		fallback: fallback,
	}
}

func Supported(lang string) bool {
	return lang == English || lang == Japanese
}

func (c *Catalog) Default() string {
	return c.fallback
}

// T returns the message for key in lang, then in the fallback language, then
// the key itself.
func (c *Catalog) T(lang, key string) string {
	if msg, ok := c.messages[lang][key]; ok {
		return msg
	}
	if msg, ok := c.messages[c.fallback][key]; ok {
		return msg
	}
	return key
}

// Match resolves an Accept-Language header to en or ja. An empty or
// unparseable header yields the fallback.
func (c *Catalog) Match(acceptLanguage string) string {
	if acceptLanguage == "" {
		return c.fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.fallback
	}
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return c.fallback
	}
	base, _ := supported[idx].Base()
	return base.String()
}
