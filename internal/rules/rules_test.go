package rules_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phoneprice/internal/rules"
)

func TestDefault(t *testing.T) {
	r := rules.Default()

	assert.Equal(t, []string{"¥", "￥"}, r.CurrencyMarkers)
	assert.Contains(t, r.Brands, "荣耀")
	assert.Contains(t, r.NavTerms, "排行榜")
	assert.Equal(t, "蔡司", r.Descriptors[0])
	assert.Equal(t, []string{".search-list > li", ".product-intro", ".item", ".goods-item", ".pro-intro"}, r.Selectors.Cards)
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	r, err := rules.Load("")
	require.NoError(t, err)
	assert.Equal(t, rules.Default(), r)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("descriptors:\n  - 旗舰\n  - 5G\n"), 0o644))

	r, err := rules.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"旗舰", "5G"}, r.Descriptors)
	assert.Equal(t, rules.Default().Brands, r.Brands)
	assert.Equal(t, rules.Default().CurrencyMarkers, r.CurrencyMarkers)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := rules.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestParse_RejectsEmptyDescriptor(t *testing.T) {
	_, err := rules.Parse([]byte("descriptors:\n  - \"  \"\n"))
	require.Error(t, err)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := rules.Parse([]byte("brands: [unclosed"))
	require.Error(t, err)
}

func TestHasBrand(t *testing.T) {
	r := rules.Default()

	assert.True(t, r.HasBrand("Huawei Mate 60"))
	assert.True(t, r.HasBrand("IPHONE 15"))
	assert.True(t, r.HasBrand("荣耀X50"))
	assert.False(t, r.HasBrand("Nokia 3310"))
}

func TestHasNavTerm(t *testing.T) {
	r := rules.Default()

	assert.True(t, r.HasNavTerm("手机排行榜"))
	assert.True(t, r.HasNavTerm("RAM容量"))
	assert.False(t, r.HasNavTerm("小米14 Pro"))
}
