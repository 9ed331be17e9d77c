// Package i18n holds the static fr/ar/en dictionaries shared by the server
// messages and the browser pages.
package i18n

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	French  = "fr"
	Arabic  = "ar"
	English = "en"

	Default = French
)

// Supported lists the languages with a dictionary.
var Supported = []string{French, Arabic, English}

// IsSupported reports whether lang has a dictionary.
func IsSupported(lang string) bool {
	_, ok := dictionaries[lang]
	return ok
}

// Normalize lowercases lang and strips any region, returning "" when the
// language has no dictionary.
func Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if IsSupported(lang) {
		return lang
	}
	return ""
}

// T translates key. Missing keys fall back to French, then to the key itself.
func T(lang, key string) string {
	if d, ok := dictionaries[lang]; ok {
		if v, ok := d[key]; ok {
			return v
		}
	}
	if v, ok := dictionaries[Default][key]; ok {
		return v
	}
	return key
}

// Tf translates key and formats it with args.
func Tf(lang, key string, args ...interface{}) string {
	if len(args) == 0 {
		return T(lang, key)
	}
	return fmt.Sprintf(T(lang, key), args...)
}

// Dictionary returns a copy of the full dictionary for lang, French keys
// filling any gap.
func Dictionary(lang string) map[string]string {
	out := make(map[string]string, len(dictionaries[Default]))
	for k, v := range dictionaries[Default] {
		out[k] = v
	}
	for k, v := range dictionaries[lang] {
		out[k] = v
	}
	return out
}

// Direction is the text direction of lang.
func Direction(lang string) string {
	if lang == Arabic {
		return "rtl"
	}
	return "ltr"
}

// DetectLanguage picks the best supported language from an Accept-Language
// header, or "" when none matches.
func DetectLanguage(acceptLanguage string) string {
	type candidate struct {
		lang string
		q    float64
	}
	var cands []candidate
	for _, part := range strings.Split(acceptLanguage, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tag, q := part, 1.0
		if semi := strings.Index(part, ";"); semi >= 0 {
			tag = strings.TrimSpace(part[:semi])
			params := strings.TrimSpace(part[semi+1:])
			if strings.HasPrefix(params, "q=") {
				if v, err := strconv.ParseFloat(strings.TrimPrefix(params, "q="), 64); err == nil {
					q = v
				}
			}
		}
		if lang := Normalize(tag); lang != "" && q > 0 {
			cands = append(cands, candidate{lang: lang, q: q})
		}
	}
	if len(cands) == 0 {
		return ""
	}
	sort.SliceStable(cands, func(a, b int) bool {
		return cands[a].q > cands[b].q
	})
	return cands[0].lang
}
