package reader

import (
	"strings"

	rpdf "rsc.io/pdf"
)

// pageGlyphs interprets the text operators of a page content stream and
// returns one rpdf.Text per shown character. It follows rsc.io/pdf's
// Page.Content with two differences: word spaces are kept as " " glyphs, and
// fonts without a /Widths array (the standard 14) get estimated advances, so
// glyphs move along the line and carry a width.
func pageGlyphs(p rpdf.Page) []rpdf.Text {
	var (
		out    []rpdf.Text
		g      = textState{th: 1, ctm: identity}
		stack  []textState
		strm   = p.V.Key("Contents")
		fonts  = map[string]*pageFont{}
		lookup = func(name string) *pageFont {
			if f, ok := fonts[name]; ok {
				return f
			}
			f := newPageFont(p.Font(name))
			fonts[name] = f
			return f
		}
	)

	show := func(s string) {
		if g.font == nil {
			return
		}
		n := 0
		for _, ch := range g.font.enc.Decode(s) {
			var code byte
			if n < len(s) {
				code = s[n]
			}
			n++
			trm := mat{{g.tfs * g.th, 0, 0}, {0, g.tfs, 0}, {0, g.rise, 1}}.mul(g.tm).mul(g.ctm)
			w0 := g.font.width(code, ch)
			text := string(ch)
			if ch == '\u00a0' {
				text = " "
			}
			out = append(out, rpdf.Text{
				Font:     g.font.name,
				FontSize: trm[0][0],
				X:        trm[2][0],
				Y:        trm[2][1],
				W:        w0 / 1000 * trm[0][0],
				S:        text,
			})
			tx := w0/1000*g.tfs + g.tc
			if ch == ' ' {
				tx += g.tw
			}
			g.tm = translate(tx*g.th, 0).mul(g.tm)
		}
	}
	nextLine := func() {
		g.tlm = translate(0, -g.tl).mul(g.tlm)
		g.tm = g.tlm
	}

	rpdf.Interpret(strm, func(stk *rpdf.Stack, op string) {
		args := make([]rpdf.Value, stk.Len())
		for i := len(args) - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}
		switch op {
		case "q":
			stack = append(stack, g)
		case "Q":
			if n := len(stack) - 1; n >= 0 {
				g = stack[n]
				stack = stack[:n]
			}
		case "cm":
			if m, ok := matrixArgs(args); ok {
				g.ctm = m.mul(g.ctm)
			}
		case "BT":
			g.tm, g.tlm = identity, identity
		case "Tc":
			if len(args) == 1 {
				g.tc = args[0].Float64()
			}
		case "Tw":
			if len(args) == 1 {
				g.tw = args[0].Float64()
			}
		case "Tz":
			if len(args) == 1 {
				g.th = args[0].Float64() / 100
			}
		case "TL":
			if len(args) == 1 {
				g.tl = args[0].Float64()
			}
		case "Ts":
			if len(args) == 1 {
				g.rise = args[0].Float64()
			}
		case "Tf":
			if len(args) == 2 {
				g.font = lookup(args[0].Name())
				g.tfs = args[1].Float64()
			}
		case "Td", "TD":
			if len(args) == 2 {
				if op == "TD" {
					g.tl = -args[1].Float64()
				}
				g.tlm = translate(args[0].Float64(), args[1].Float64()).mul(g.tlm)
				g.tm = g.tlm
			}
		case "Tm":
			if m, ok := matrixArgs(args); ok {
				g.tm, g.tlm = m, m
			}
		case "T*":
			nextLine()
		case "Tj":
			if len(args) == 1 {
				show(args[0].RawString())
			}
		case "'":
			if len(args) == 1 {
				nextLine()
				show(args[0].RawString())
			}
		case "\"":
			if len(args) == 3 {
				g.tw, g.tc = args[0].Float64(), args[1].Float64()
				nextLine()
				show(args[2].RawString())
			}
		case "TJ":
			if len(args) != 1 {
				return
			}
			v := args[0]
			for i := 0; i < v.Len(); i++ {
				x := v.Index(i)
				if x.Kind() == rpdf.String {
					show(x.RawString())
					continue
				}
				g.tm = translate(-x.Float64()/1000*g.tfs*g.th, 0).mul(g.tm)
			}
		}
	})
	return out
}

type mat [3][3]float64

var identity = mat{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

func translate(tx, ty float64) mat {
	return mat{{1, 0, 0}, {0, 1, 0}, {tx, ty, 1}}
}

func (x mat) mul(y mat) mat {
	var z mat
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				z[i][j] += x[i][k] * y[k][j]
			}
		}
	}
	return z
}

func matrixArgs(args []rpdf.Value) (mat, bool) {
	if len(args) != 6 {
		return mat{}, false
	}
	var m mat
	for i := 0; i < 6; i++ {
		m[i/2][i%2] = args[i].Float64()
	}
	m[2][2] = 1
	return m, true
}

type textState struct {
	font           *pageFont
	tfs            float64
	tc, tw, th, tl float64
	rise           float64
	tm, tlm, ctm   mat
}

// pageFont caches what the interpreter needs from a font dictionary.
type pageFont struct {
	font      rpdf.Font
	name      string
	enc       rpdf.TextEncoding
	hasWidths bool
}

func newPageFont(f rpdf.Font) *pageFont {
	name := f.BaseFont()
	if _, after, ok := strings.Cut(name, "+"); ok {
		name = after
	}
	var enc rpdf.TextEncoding = rawEncoding{}
	if !f.V.IsNull() {
		if e := f.Encoder(); e != nil {
			enc = e
		}
	}
	return &pageFont{font: f, name: name, enc: enc, hasWidths: f.V.Key("Widths").Len() > 0}
}

// width returns the advance of one character in thousandths of an em.
func (f *pageFont) width(code byte, ch rune) float64 {
	if f.hasWidths {
		if w := f.font.Width(int(code)); w > 0 {
			return w
		}
	}
	return estimateWidth(ch)
}

// estimateWidth approximates Helvetica metrics, close enough to tell word
// gaps from letter spacing.
func estimateWidth(ch rune) float64 {
	switch {
	case ch == ' ' || ch == '\u00a0':
		return 278
	case strings.ContainsRune("iljItf.,:;'!|()[]", ch):
		return 278
	case ch == 'm' || ch == 'M':
		return 833
	case ch == 'w' || ch == 'W':
		return 778
	case ch >= 0x2e80:
		return 1000
	case ch >= 'A' && ch <= 'Z':
		return 667
	}
	return 556
}

type rawEncoding struct{}

func (rawEncoding) Decode(raw string) string { return raw }
