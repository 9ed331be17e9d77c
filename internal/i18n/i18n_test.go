package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestT_Fallbacks(t *testing.T) {
	assert.Equal(t, "Panier", T(French, "nav.cart"))
	assert.Equal(t, "Cart", T(English, "nav.cart"))
	assert.Equal(t, "Panier", T("de", "nav.cart"))
	assert.Equal(t, "missing.key", T(English, "missing.key"))
}

func TestTf(t *testing.T) {
	assert.Equal(t, "Please wait 42 seconds before resending the code.", Tf(English, "auth.resend_wait", 42))
}

func TestDictionaries_SameKeys(t *testing.T) {
	for key := range french {
		_, inArabic := arabic[key]
		_, inEnglish := english[key]
		assert.True(t, inArabic, "arabic missing %s", key)
		assert.True(t, inEnglish, "english missing %s", key)
	}
}

func TestDictionary_IsCopy(t *testing.T) {
	d := Dictionary(English)
	d["nav.cart"] = "changed"
	assert.Equal(t, "Cart", T(English, "nav.cart"))
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"ar-TN,ar;q=0.9,fr;q=0.8", "ar"},
		{"de-DE,en;q=0.5,fr;q=0.7", "fr"},
		{"en-US", "en"},
		{"de,it", ""},
		{"fr;q=0,en;q=0.1", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.header))
		})
	}
}

func TestDirection(t *testing.T) {
	assert.Equal(t, "rtl", Direction(Arabic))
	assert.Equal(t, "ltr", Direction(French))
}
