package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleTokens = []string{
	"",
	"identity/LineItemId",
	"identity/TimeInterval",
	"lineItem/UsageAmount",
	"lineItem/UnblendedCost",
	"bill/BillingPeriodStartDate",
	"resource_tags_user:kubernetes.io/cluster/name",
	"resourceTags/user:Name",
	"product/region",
	"pricing_unit",
	"line_item_usage_amount",
	"_leading",
	"__double_leading",
	"a//b",
	"Plain",
	"trailing/",
	"reservation/AmortizedUpfrontFeeForBillingPeriod",
	"savingsPlan/SavingsPlanARN",
}

func TestSymbol_KnownTransforms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"identity/LineItemId", "identity_line_item_id"},
		{"lineItem/UsageAmount", "line_item_usage_amount"},
		{"resource_tags_user:kubernetes.io/cluster/name", "resource_tags_user_kubernetes_io_cluster_name"},
		{"product/region", "product_region"},
		{"resourceTags/user:Name", "resource_tags_user_name"},
		{"pricing_unit", "pricing_unit"},
		{"Plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Symbol(tt.in))
		})
	}
}

func TestSlash_KnownTransforms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"identity/LineItemId", "identity_line_item_id"},
		{"lineItem/UsageAmount", "line_item_usage_amount"},
		{"bill/BillingPeriodStartDate", "bill_billing_period_start_date"},
		{"resourceTags/user:Name", "resource_tags_user:_name"},
		{"Plain", "Plain"},
		{"pricing_unit", "pricing_unit"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slash(tt.in), "Slash(%q)", tt.in)
	}
}

func TestIdempotence(t *testing.T) {
	t.Parallel()

	for _, p := range []Policy{PolicySymbol, PolicySlash} {
		fn, err := ForPolicy(p)
		require.NoError(t, err)
		for _, tok := range sampleTokens {
			once := fn(tok)
			assert.Equal(t, once, fn(once), "policy %s, token %q", p, tok)
		}
	}
}

func TestHeader_PreservesOrderAndDuplicates(t *testing.T) {
	t.Parallel()

	in := []string{"lineItem/UsageAmount", "line_item_usage_amount", "product/region"}
	got := Header(in, Symbol)
	assert.Equal(t, []string{"line_item_usage_amount", "line_item_usage_amount", "product_region"}, got)
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicySymbol, p)

	p, err = ParsePolicy(" Slash ")
	require.NoError(t, err)
	assert.Equal(t, PolicySlash, p)

	_, err = ParsePolicy("camel")
	assert.Error(t, err)

	_, err = ForPolicy("camel")
	assert.Error(t, err)
}
