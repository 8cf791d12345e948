package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curfmt/internal/normalize"
)

func TestBuild_NoReconcile(t *testing.T) {
	t.Parallel()

	raw := []string{"identity/LineItemId", "lineItem/UsageAmount", "resource_tags_user:kubernetes.io/cluster/name"}
	p := Build(raw, normalize.Symbol, nil, MatchExact)

	assert.Equal(t, []string{
		"identity_line_item_id",
		"line_item_usage_amount",
		"resource_tags_user_kubernetes_io_cluster_name",
	}, p.Output)
	assert.Equal(t, []int{0, 1, 2}, p.Source)
	assert.Equal(t, 3, p.InputWidth)
	assert.Empty(t, p.Appended)

	pos, ok := p.Position("line_item_usage_amount")
	require.True(t, ok)
	assert.Equal(t, 1, pos)
}

func TestBuild_AppendsMissingRequired(t *testing.T) {
	t.Parallel()

	raw := []string{"lineItem/UsageAmount", "product/region"}
	p := Build(raw, normalize.Symbol, []string{"product_region", "pricing_unit", "pricing_term"}, MatchExact)

	assert.Equal(t, []string{"line_item_usage_amount", "product_region", "pricing_unit", "pricing_term"}, p.Output)
	assert.Equal(t, []int{0, 1, -1, -1}, p.Source)
	assert.Equal(t, []string{"pricing_unit", "pricing_term"}, p.Appended)

	row := Map(p, []string{"3.5", "us-east-1"})
	assert.Equal(t, []string{"3.5", "us-east-1", "", ""}, row)
}

func TestBuild_RequiredListedTwiceAppendedOnce(t *testing.T) {
	t.Parallel()

	p := Build([]string{"a"}, normalize.Symbol, []string{"pricing_unit", "pricing_unit"}, MatchExact)
	assert.Equal(t, []string{"a", "pricing_unit"}, p.Output)
}

func TestBuild_FuzzyVersusExact(t *testing.T) {
	t.Parallel()

	// "pricingunit" contains "pricing_unit" once underscores are stripped.
	raw := []string{"pricing/Unit_Extra"}
	exact := Build(raw, normalize.Symbol, []string{"pricing_unit"}, MatchExact)
	fuzzy := Build(raw, normalize.Symbol, []string{"pricing_unit"}, MatchFuzzy)

	assert.Equal(t, []string{"pricing_unit"}, exact.Appended)
	assert.Empty(t, fuzzy.Appended)

	// Fuzzy also matches in the other direction: "unit" is inside "pricingunit".
	short := Build([]string{"unit"}, normalize.Symbol, []string{"pricing_unit"}, MatchFuzzy)
	assert.Empty(t, short.Appended)
}

func TestBuild_DuplicatesKept(t *testing.T) {
	t.Parallel()

	raw := []string{"lineItem/UsageAmount", "line_item_usage_amount", "x"}
	p := Build(raw, normalize.Symbol, nil, MatchExact)

	assert.Equal(t, []string{"line_item_usage_amount", "line_item_usage_amount", "x"}, p.Output)
	assert.Equal(t, 0, p.Index["line_item_usage_amount"])
	assert.Equal(t, []string{"line_item_usage_amount"}, p.Duplicates())
	assert.Equal(t, []string{"1", "2", "3"}, Map(p, []string{"1", "2", "3"}))
}

func TestMap_WidthInvariant(t *testing.T) {
	t.Parallel()

	p := Build([]string{"a", "b", "c"}, normalize.Symbol, []string{"pricing_unit"}, MatchExact)
	for _, fields := range [][]string{
		{},
		{"1"},
		{"1", "2", "3"},
		{"1", "2", "3", "4", "5"},
	} {
		assert.Len(t, Map(p, fields), p.Width(), "fields %q", fields)
	}
	assert.Equal(t, []string{"1", "", "", ""}, Map(p, []string{"1"}))
}

func TestParseMatch(t *testing.T) {
	t.Parallel()

	m, err := ParseMatch("")
	require.NoError(t, err)
	assert.Equal(t, MatchExact, m)

	m, err = ParseMatch("FUZZY")
	require.NoError(t, err)
	assert.Equal(t, MatchFuzzy, m)

	_, err = ParseMatch("regex")
	assert.Error(t, err)
}
