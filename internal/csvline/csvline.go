// Package csvline parses and formats single physical CSV lines.
//
// Reading is line oriented: a quoted field that contains a literal line break
// is split across two physical lines and cannot be reassembled here. Malformed
// quoting never fails; an unterminated quoted field runs to the end of the line.
package csvline

import "strings"

const (
	comma = ','
	quote = '"'
)

// Parse splits one line (without its trailing newline) into fields. A
// trailing '\r' is dropped. An empty line yields a single empty field.
func Parse(line string) []string {
	line = strings.TrimSuffix(line, "\r")
	fields := make([]string, 0, strings.Count(line, ",")+1)

	var b strings.Builder
	i, n := 0, len(line)
	for {
		b.Reset()
		if i < n && line[i] == quote {
			i++
			for i < n {
				c := line[i]
				if c == quote {
					if i+1 < n && line[i+1] == quote {
						b.WriteByte(quote)
						i += 2
						continue
					}
					i++
					break
				}
				b.WriteByte(c)
				i++
			}
			// Anything between the closing quote and the next comma is kept verbatim.
			for i < n && line[i] != comma {
				b.WriteByte(line[i])
				i++
			}
		} else {
			j := strings.IndexByte(line[i:], comma)
			if j < 0 {
				j = n - i
			}
			b.WriteString(line[i : i+j])
			i += j
		}
		fields = append(fields, b.String())

		if i >= n {
			return fields
		}
		// line[i] is a comma.
		i++
		if i == n {
			return append(fields, "")
		}
	}
}

// Format returns field in CSV-safe form: quoted, with internal quotes doubled,
// when it contains a comma, a quote or a line break; unchanged otherwise.
func Format(field string) string {
	if !strings.ContainsAny(field, ",\"\r\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// Join formats every field and joins them with commas.
func Join(fields []string) string {
	switch len(fields) {
	case 0:
		return ""
	case 1:
		return Format(fields[0])
	}
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(comma)
		}
		b.WriteString(Format(f))
	}
	return b.String()
}
