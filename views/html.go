package views

import (
	"io"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
)

// HTML accumulates markup and remembers the first write error
type HTML struct {
	w   io.Writer
	err error
}

// NewHTML wraps w
func NewHTML(w io.Writer) *HTML {
	return &HTML{w: w}
}

// Raw writes trusted markup
func (h *HTML) Raw(s string) *HTML {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
	return h
}

// Text writes escaped text
func (h *HTML) Text(s string) *HTML {
	return h.Raw(templ.EscapeString(s))
}

// Attr writes ` name="value"` with the value escaped
func (h *HTML) Attr(name, value string) *HTML {
	return h.Raw(" " + name + `="`).Text(value).Raw(`"`)
}

// Err returns the first write error
func (h *HTML) Err() error {
	return h.err
}

const buttonBase = "inline-flex items-center rounded-md px-3 py-1 text-sm font-medium bg-blue-600 text-white hover:bg-blue-700"

// ButtonClass merges the base button classes with overrides; later classes win
func ButtonClass(overrides ...string) string {
	return twmerge.Merge(append([]string{buttonBase}, overrides...)...)
}

// DisabledButtonClass is the button style for inactive controls
func DisabledButtonClass(overrides ...string) string {
	return ButtonClass(append([]string{"bg-gray-300 text-gray-500 hover:bg-gray-300 cursor-not-allowed"}, overrides...)...)
}
