// Package i18n resolves the visitor's language (Hebrew or English) and holds the
// localized strings the API returns to the front end.
package i18n

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Lang is a supported site language.
type Lang string

const (
	Hebrew  Lang = "he"
	English Lang = "en"

	// QueryParam selects a language explicitly (?lang=en).
	QueryParam = "lang"
	// CookieName persists the visitor's choice.
	CookieName = "site_lang"
)

// Default is the site's primary language.
var Default = Hebrew

var matcher = language.NewMatcher([]language.Tag{language.Hebrew, language.English})

// Parse maps a tag-ish string ("en", "en-GB", "he-IL", "iw") to a supported language.
func Parse(v string) (Lang, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	tag, err := language.Parse(v)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	switch base.String() {
	case "he", "iw":
		return Hebrew, true
	case "en":
		return English, true
	}
	return "", false
}

// Normalize returns the supported language for v, or Default.
func Normalize(v string) Lang {
	if l, ok := Parse(v); ok {
		return l
	}
	return Default
}

// Resolve determines the language for a request: the lang query parameter first, then
// the language cookie, then Accept-Language. The bool reports whether the choice came
// from the query and should be persisted.
func Resolve(r *http.Request) (Lang, bool) {
	if r == nil {
		return Default, false
	}
	if l, ok := Parse(r.URL.Query().Get(QueryParam)); ok {
		return l, true
	}
	if c, err := r.Cookie(CookieName); err == nil {
		if l, ok := Parse(c.Value); ok {
			return l, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, idx, conf := matcher.Match(tags...)
			if conf != language.No {
				if idx == 1 {
					return English, false
				}
				return Hebrew, false
			}
		}
	}
	return Default, false
}

// SetCookie persists the selected language on the response.
func SetCookie(w http.ResponseWriter, l Lang) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    string(l),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// Dir is the text direction for the language.
func Dir(l Lang) string {
	if l == Hebrew {
		return "rtl"
	}
	return "ltr"
}

// Pick returns he or en depending on l.
func Pick(l Lang, he, en string) string {
	if l == English {
		return en
	}
	return he
}

// Locale is the BCP 47 locale used for date formatting on the front end.
func Locale(l Lang) string {
	return Pick(l, "he-IL", "en-GB")
}
