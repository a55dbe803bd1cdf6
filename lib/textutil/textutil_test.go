package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRemoveSymbols(t *testing.T) {
	require.Equal(t, "JB Nutts LLC", RemoveSymbols("J&B Nutt's, L.L.C."))
	require.Equal(t, "plain name", RemoveSymbols("plain name"))
}

func TestNormalizeForMatch(t *testing.T) {
	require.Equal(t, "acme holdings llc", NormalizeForMatch("  ACME   Holdings, L.L.C. "))
}

func TestSlugify(t *testing.T) {
	require.Equal(t, "acme_holdings_llc", Slugify("Acme Holdings, L.L.C."))
}
