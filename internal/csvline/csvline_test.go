package csvline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty_line", in: "", want: []string{""}},
		{name: "simple", in: "a,b,c", want: []string{"a", "b", "c"}},
		{name: "trailing_comma", in: "a,b,", want: []string{"a", "b", ""}},
		{name: "leading_comma", in: ",a", want: []string{"", "a"}},
		{name: "only_commas", in: ",,", want: []string{"", "", ""}},
		{name: "quoted_comma", in: `"a,b",c`, want: []string{"a,b", "c"}},
		{name: "doubled_quote", in: `"say ""hi""",x`, want: []string{`say "hi"`, "x"}},
		{name: "empty_quoted", in: `"",x`, want: []string{"", "x"}},
		{name: "crlf", in: "a,b\r", want: []string{"a", "b"}},
		{name: "spaces_kept", in: " a , b ", want: []string{" a ", " b "}},
		{name: "unterminated_quote", in: `a,"b,c`, want: []string{"a", "b,c"}},
		{name: "text_after_closing_quote", in: `"a"b,c`, want: []string{"ab", "c"}},
		{name: "bare_quote_in_unquoted", in: `a"b,c`, want: []string{`a"b`, "c"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "plain", Format("plain"))
	assert.Equal(t, "", Format(""))
	assert.Equal(t, `"a,b"`, Format("a,b"))
	assert.Equal(t, `"say ""hi"""`, Format(`say "hi"`))
	assert.Equal(t, "\"a\nb\"", Format("a\nb"))
	assert.Equal(t, "\"a\rb\"", Format("a\rb"))
}

func TestJoin(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", Join(nil))
	assert.Equal(t, `a,"b,c",""""`, Join([]string{"a", "b,c", `"`}))
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	cases := [][]string{
		{""},
		{"", ""},
		{"a"},
		{"a", "b", "c"},
		{"a,b", `c"d`, ""},
		{`"`, `""`, `","`},
		{" padded ", "trailing\r"},
		{"1.5", "USD", "2024-01-01T00:00:00Z"},
		{strings.Repeat("x", 1000), ",", `"quoted"`},
	}
	for _, fields := range cases {
		assert.Equal(t, fields, Parse(Join(fields)), "fields %q", fields)
	}
}
