package csvin

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"curfmt/internal/csvline"
)

// Reader yields one parsed physical line at a time. The first line is the
// header.
type Reader struct {
	br     *bufio.Reader
	header []string
	inited bool
	lines  int64
}

func New(r io.Reader) *Reader {
	// BOMOverride drops a leading UTF-8 BOM and is a no-op otherwise.
	tr := transform.NewReader(r, unicode.BOMOverride(transform.Nop))
	return &Reader{br: bufio.NewReaderSize(tr, 1<<20)}
}

func (r *Reader) readLine() (string, error) {
	line, err := r.br.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			r.lines++
			return line, nil
		}
		return "", err
	}
	r.lines++
	return strings.TrimSuffix(line, "\n"), nil
}

func (r *Reader) init() error {
	if r.inited {
		return nil
	}
	line, err := r.readLine()
	if err != nil {
		return err
	}
	r.header = csvline.Parse(line)
	r.inited = true
	return nil
}

// Header returns the raw header tokens. It returns io.EOF for empty input.
func (r *Reader) Header() ([]string, error) {
	if err := r.init(); err != nil {
		return nil, err
	}
	return r.header, nil
}

// Next returns the fields of the next data line, or io.EOF.
func (r *Reader) Next() ([]string, error) {
	if err := r.init(); err != nil {
		return nil, err
	}
	line, err := r.readLine()
	if err != nil {
		return nil, err
	}
	return csvline.Parse(line), nil
}

// Lines counts physical lines consumed so far, header included.
func (r *Reader) Lines() int64 { return r.lines }
