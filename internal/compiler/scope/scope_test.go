package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbouvier/pseudoc/internal/compiler/symbols"
)

func TestDefineAndLookup(t *testing.T) {
	global := NewScope(nil, "global")

	err := global.Define("x", symbols.SymbolInfo{Name: "x", Type: symbols.TypeInteger, Line: 3})
	require.NoError(t, err)

	info, ok := global.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, symbols.TypeInteger, info.Type)
}

func TestDefineDuplicate(t *testing.T) {
	global := NewScope(nil, "global")

	require.NoError(t, global.Define("x", symbols.SymbolInfo{Name: "x", Type: symbols.TypeInteger, Line: 3}))
	err := global.Define("x", symbols.SymbolInfo{Name: "x", Type: symbols.TypeReal, Line: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already declared at line 3")
}

func TestLookupWalksOutward(t *testing.T) {
	global := NewScope(nil, "global")
	require.NoError(t, global.Define("g", symbols.SymbolInfo{Name: "g", Type: symbols.TypeText}))

	local := NewScope(global, "calcul")
	info, ok := local.Lookup("g")
	require.True(t, ok)
	assert.Equal(t, symbols.TypeText, info.Type)

	_, ok = local.LookupCurrentScope("g")
	assert.False(t, ok)
}

func TestLocalShadowsGlobal(t *testing.T) {
	global := NewScope(nil, "global")
	require.NoError(t, global.Define("n", symbols.SymbolInfo{Name: "n", Type: symbols.TypeInteger}))

	local := NewScope(global, "calcul")
	require.NoError(t, local.Define("n", symbols.SymbolInfo{Name: "n", Type: symbols.TypeReal}))

	info, ok := local.Lookup("n")
	require.True(t, ok)
	assert.Equal(t, symbols.TypeReal, info.Type)

	info, ok = global.Lookup("n")
	require.True(t, ok)
	assert.Equal(t, symbols.TypeInteger, info.Type)
}
