package shadertext

import (
	"fmt"
	"strings"
)

const indentStr = "    "

// Writer accumulates shader source one line at a time, prefixing every
// line with the current indentation.
type Writer struct {
	lang   Language
	buf    []byte
	indent int
}

// NewWriter returns a Writer that produces source for lang.
func NewWriter(lang Language) *Writer {
	return &Writer{lang: lang}
}

// Language returns the language the writer produces source for.
func (w *Writer) Language() Language { return w.lang }

// Line writes s on a new line. Empty lines are not indented.
func (w *Writer) Line(s string) {
	if s != "" {
		for i := 0; i < w.indent; i++ {
			w.buf = append(w.buf, indentStr...)
		}
		w.buf = append(w.buf, s...)
	}
	w.buf = append(w.buf, '\n')
}

// Linef formats according to a format specifier and writes the result on a new line.
func (w *Writer) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Lines writes every line of a multi-line block, indenting each one.
// A single trailing newline in block is ignored.
func (w *Writer) Lines(block string) {
	block = strings.TrimSuffix(block, "\n")
	for _, line := range strings.Split(block, "\n") {
		w.Line(line)
	}
}

// Indent increases the indentation of subsequent lines.
func (w *Writer) Indent() { w.indent++ }

// Dedent decreases the indentation of subsequent lines.
func (w *Writer) Dedent() {
	if w.indent > 0 {
		w.indent--
	}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Bytes returns the written source. The slice aliases the writer's buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// String returns the written source.
func (w *Writer) String() string { return string(w.buf) }

// Reset discards all written source and indentation.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.indent = 0
}
