package bintree

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/npillmayer/bintree/arena"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/uax11"
	"golang.org/x/term"
)

// DumpOptions control the console rendering of trees by Dump.
type DumpOptions struct {
	Colors        bool                      // colorize node labels and child tags
	MaxLabelWidth int                       // truncate labels to this display width; 0 means no limit
	Context       *uax11.Context            // context for display width calculation
	Palette       map[DumpRole]*color.Color // overrides the default colors per role
}

// DumpRole is the role a piece of output text plays in a tree dump, used to
// select its color.
type DumpRole int

// Roles of text in a tree dump.
const (
	RootLabel DumpRole = iota
	NodeLabel
	LeftTag
	RightTag
)

func defaultPalette() map[DumpRole]*color.Color {
	return map[DumpRole]*color.Color{
		RootLabel: color.New(color.FgRed, color.Bold),
		NodeLabel: color.New(color.FgBlue),
		LeftTag:   color.New(color.FgCyan),
		RightTag:  color.New(color.FgMagenta),
	}
}

// DumpOptionsFromTerminal is a simple helper for creating dump options.
// It checks wether stdout is a terminal, and if so it enables colors and
// limits labels to half of the terminal's width.
func DumpOptionsFromTerminal() *DumpOptions {
	opts := &DumpOptions{Context: uax11.LatinContext}
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		opts.Colors = true
		opts.Context = uax11.ContextFromEnvironment()
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			opts.MaxLabelWidth = w / 2
		}
	}
	return opts
}

// Print outputs the tree below root to stdout, with options derived from
// the terminal's properties.
func Print[T any](root Node[T]) error {
	return Dump(root, os.Stdout, DumpOptionsFromTerminal())
}

// Dump outputs the tree below root to w, one node per line, for debugging
// purposes. Left children are tagged 'L', right children 'R'. If opts is
// nil, plain output without width limits is produced.
//
//	100
//	├─L 200
//	│  └─L 400
//	└─R 333
func Dump[T any](root Node[T], w io.Writer, opts *DumpOptions) error {
	if err := root.check(); err != nil {
		return err
	}
	if opts == nil {
		opts = &DumpOptions{}
	}
	d := dumper[T]{f: root.forest, w: w, opts: opts, palette: defaultPalette()}
	for role, c := range opts.Palette {
		d.palette[role] = c
	}
	for role, c := range d.palette {
		if c == nil {
			continue
		}
		own := *c // colors of the caller's palette stay untouched
		own.EnableColor()
		d.palette[role] = &own
	}
	d.line("", "", RootLabel, d.label(root.h))
	d.children(root.h, "")
	return d.err
}

type dumper[T any] struct {
	f       *Forest[T]
	w       io.Writer
	opts    *DumpOptions
	palette map[DumpRole]*color.Color
	err     error
}

type tagged struct {
	h   arena.Handle
	tag DumpRole
}

func (d *dumper[T]) children(h arena.Handle, prefix string) {
	n := d.f.get(h)
	var cs []tagged
	if !n.left.IsNil() {
		cs = append(cs, tagged{n.left, LeftTag})
	}
	if !n.right.IsNil() {
		cs = append(cs, tagged{n.right, RightTag})
	}
	for i, c := range cs {
		connector, indent := "├─", "│  "
		if i == len(cs)-1 {
			connector, indent = "└─", "   "
		}
		tag := "L"
		if c.tag == RightTag {
			tag = "R"
		}
		d.line(prefix+connector, d.paint(c.tag, tag)+" ", NodeLabel, d.label(c.h))
		d.children(c.h, prefix+indent)
	}
}

func (d *dumper[T]) label(h arena.Handle) string {
	label := fmt.Sprintf("%v", d.f.get(h).value)
	return truncateLabel(label, d.opts.MaxLabelWidth, d.opts.Context)
}

func (d *dumper[T]) line(prefix, tag string, role DumpRole, label string) {
	if d.err != nil {
		return
	}
	_, d.err = io.WriteString(d.w, prefix+tag+d.paint(role, label)+"\n")
}

func (d *dumper[T]) paint(role DumpRole, s string) string {
	if !d.opts.Colors {
		return s
	}
	c, ok := d.palette[role]
	if !ok || c == nil {
		return s
	}
	return c.Sprint(s)
}

var setupGraphemes sync.Once

// truncateLabel shortens label to a display width of at most limit, replacing
// the cut-off part by an ellipsis. Grapheme clusters are never split.
func truncateLabel(label string, limit int, context *uax11.Context) string {
	if limit <= 0 || label == "" {
		return label
	}
	if context == nil {
		context = uax11.LatinContext
	}
	setupGraphemes.Do(func() {
		grapheme.SetupGraphemeClasses()
	})
	gstr := grapheme.StringFromString(label)
	if uax11.StringWidth(gstr, context) <= limit {
		return label
	}
	var b strings.Builder
	width := 0
	for i := 0; i < gstr.Len(); i++ {
		g := gstr.Nth(i)
		gw := uax11.StringWidth(grapheme.StringFromString(g), context)
		if width+gw > limit-1 {
			break
		}
		b.WriteString(g)
		width += gw
	}
	b.WriteString("…")
	return b.String()
}
