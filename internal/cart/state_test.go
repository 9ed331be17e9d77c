package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeState_Valid(t *testing.T) {
	state, discarded := DecodeState(map[string]string{
		KeyCart:                  `[{"id":1,"price":"3","quantity":2}]`,
		KeySelectedPaymentMethod: `{"id":4,"methode_name":"D17"}`,
		KeyDarkMode:              "true",
		KeyLanguage:              `"ar"`,
	})

	assert.Empty(t, discarded)
	assert.Len(t, state.Cart, 1)
	require.NotNil(t, state.SelectedPaymentMethod)
	assert.Equal(t, 4, state.SelectedPaymentMethod.ID)
	assert.True(t, state.DarkMode)
	assert.Equal(t, "ar", state.Language)
}

func TestDecodeState_CorruptKeysDiscardedIndependently(t *testing.T) {
	state, discarded := DecodeState(map[string]string{
		KeyCart:                  `[{"id":`,
		KeySelectedPaymentMethod: "abc",
		KeyDarkMode:              "maybe",
		KeyLanguage:              "klingon",
	})

	assert.ElementsMatch(t, []string{KeyCart, KeySelectedPaymentMethod, KeyDarkMode, KeyLanguage}, discarded)
	assert.Empty(t, state.Cart)
	assert.Nil(t, state.SelectedPaymentMethod)
	assert.False(t, state.DarkMode)
	assert.Equal(t, "fr", state.Language)
}

func TestDecodeState_Missing(t *testing.T) {
	state, discarded := DecodeState(nil)
	assert.Empty(t, discarded)
	assert.NotNil(t, state.Cart)
	assert.Equal(t, "fr", state.Language)
}

func TestDecodeSelection(t *testing.T) {
	sel, ok := DecodeSelection("3")
	require.True(t, ok)
	assert.Equal(t, 3, sel.ID)

	sel, ok = DecodeSelection(`"7"`)
	require.True(t, ok)
	assert.Equal(t, 7, sel.ID)

	_, ok = DecodeSelection("0")
	assert.False(t, ok)

	round, ok := DecodeSelection(EncodeSelection(PaymentSelection{ID: 9, MethodeName: "Carte"}))
	require.True(t, ok)
	assert.Equal(t, "Carte", round.MethodeName)
}
