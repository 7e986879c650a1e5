package ui

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Palette cycles label colors the way concurrently's "auto" prefix color does.
var Palette = []lipgloss.Color{"5", "2", "3", "4", "6", "1", "13", "10", "11", "12", "14", "9"}

// Mux serializes labelled line output from many processes onto one writer.
type Mux struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
	width int
}

// NewMux returns a Mux writing to out. Labels are padded to width.
func NewMux(out io.Writer, color bool, width int) *Mux {
	return &Mux{out: out, color: color, width: width}
}

// Writer returns a writer that prefixes each complete line with label.
// Close flushes a trailing partial line.
func (m *Mux) Writer(label string, color int) io.WriteCloser {
	prefix := fmt.Sprintf("[%-*s]", m.width, label)
	if m.color {
		style := lipgloss.NewStyle().Foreground(Palette[color%len(Palette)])
		prefix = style.Render(prefix)
	}
	return &lineWriter{mux: m, prefix: prefix + " "}
}

// Printf writes a single labelled line.
func (m *Mux) Printf(label string, color int, format string, args ...any) {
	w := m.Writer(label, color)
	_, _ = fmt.Fprintf(w, format+"\n", args...)
}

func (m *Mux) writeLine(prefix string, line []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, _ = io.WriteString(m.out, prefix)
	_, _ = m.out.Write(line)
	_, _ = io.WriteString(m.out, "\n")
}

type lineWriter struct {
	mux    *Mux
	prefix string
	mu     sync.Mutex
	buf    []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.mux.writeLine(w.prefix, bytes.TrimSuffix(w.buf[:i], []byte("\r")))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *lineWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.buf) > 0 {
		w.mux.writeLine(w.prefix, w.buf)
		w.buf = nil
	}
	return nil
}
