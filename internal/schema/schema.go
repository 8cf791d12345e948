// Package schema holds the canonical CUR column model: the required-columns
// list and the per-file output plan.
package schema

// RequiredColumns is the ordered set of canonical columns a reconciled output
// must carry. Missing ones are appended in this order.
var RequiredColumns = []string{
	"identity_line_item_id",
	"identity_time_interval",
	"bill_payer_account_id",
	"bill_billing_period_start_date",
	"bill_billing_period_end_date",
	"line_item_usage_account_id",
	"line_item_line_item_type",
	"line_item_usage_start_date",
	"line_item_usage_end_date",
	"line_item_product_code",
	"line_item_usage_type",
	"line_item_operation",
	"line_item_availability_zone",
	"line_item_resource_id",
	"line_item_usage_amount",
	"line_item_currency_code",
	"line_item_unblended_rate",
	"line_item_unblended_cost",
	"line_item_blended_cost",
	"line_item_line_item_description",
	"product_product_name",
	"product_region",
	"product_instance_type",
	"pricing_term",
	"pricing_unit",
	"pricing_public_on_demand_cost",
}

// DefaultRequired returns a copy of RequiredColumns.
func DefaultRequired() []string {
	return append([]string(nil), RequiredColumns...)
}

// Plan maps input rows onto the output header. It is built once per file from
// the header line and never modified afterwards.
type Plan struct {
	// Output is the canonical output header.
	Output []string
	// Source[i] is the input field index feeding Output[i], or -1 for an
	// appended required column.
	Source []int
	// Index holds the first output position of each canonical name.
	Index map[string]int
	// InputWidth is the number of columns in the input header.
	InputWidth int
	// Appended lists required columns added after the original ones.
	Appended []string
}

// Width is the number of fields in every output row.
func (p *Plan) Width() int { return len(p.Output) }

// Position returns the first output position of name.
func (p *Plan) Position(name string) (int, bool) {
	i, ok := p.Index[name]
	return i, ok
}

// Duplicates lists canonical names produced by more than one input column.
func (p *Plan) Duplicates() []string {
	seen := make(map[string]int, len(p.Output))
	var out []string
	for _, name := range p.Output {
		seen[name]++
		if seen[name] == 2 {
			out = append(out, name)
		}
	}
	return out
}
