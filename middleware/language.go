package middleware

import (
	"pc-store/i18n"

	"github.com/gin-gonic/gin"
)

const (
	langKey    = "lang"
	catalogKey = "i18n_catalog"
)

// Language resolves the response language from the lang query parameter, the
// lang cookie, then Accept-Language, falling back to the catalog default.
func Language(catalog *i18n.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.Query("lang")
		if !i18n.Supported(lang) {
			lang, _ = c.Cookie("lang")
		}
		if !i18n.Supported(lang) {
			lang = catalog.Match(c.GetHeader("Accept-Language"))
		}

		c.Set(langKey, lang)
		c.Set(catalogKey, catalog)
		c.Header("Content-Language", lang)
		c.Next()
	}
}

// Lang returns the language chosen by Language, or English outside it.
func Lang(c *gin.Context) string {
	if lang := c.GetString(langKey); lang != "" {
		return lang
	}
	return i18n.English
}

// Translate localizes key for the current request.
func Translate(c *gin.Context, key string) string {
	if v, ok := c.Get(catalogKey); ok {
		return v.(*i18n.Catalog).T(Lang(c), key)
	}
	return key
}
