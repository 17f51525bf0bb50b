package printer

import (
	"bytes"
	"fmt"
	"strings"
)

// ESC/POS command bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

const (
	FontNormal = 0x00
	FontDouble = 0x11
)

// Document builds an ESC/POS byte stream.
type Document struct {
	buf   bytes.Buffer
	width int // characters per line: 32 for 58mm paper, 48 for 80mm
}

// NewDocument starts a document for the given line width.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = 32
	}
	d := &Document{width: charWidth}
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// Width is the number of characters per line.
func (d *Document) Width() int {
	return d.width
}

func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes s and a line feed. Text longer than the line is truncated.
func (d *Document) Text(s string) *Document {
	d.buf.WriteString(d.clip(s))
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

func (d *Document) Separator(char byte) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints key on the left and value flush right.
func (d *Document) KeyValue(key, value string) *Document {
	return d.columns(key, value)
}

// ItemLine prints "2x Club sandwich" with the line total flush right.
func (d *Document) ItemLine(qty int, name, total string) *Document {
	return d.columns(fmt.Sprintf("%dx %s", qty, name), total)
}

// Amounts prints a label followed by a base and a converted amount, both right aligned.
func (d *Document) Amounts(label, base, converted string) *Document {
	const col = 12
	right := fmt.Sprintf("%*s%*s", col, base, col, converted)
	return d.columns(label, right)
}

func (d *Document) columns(left, right string) *Document {
	room := d.width - len(right) - 1
	if room < 1 {
		room = 1
	}
	if len(left) > room {
		left = left[:room]
	}
	pad := d.width - len(left) - len(right)
	if pad < 1 {
		pad = 1
	}
	d.buf.WriteString(left)
	d.buf.WriteString(strings.Repeat(" ", pad))
	d.buf.WriteString(right)
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) clip(s string) string {
	if len(s) > d.width {
		return s[:d.width]
	}
	return s
}

// Cut sends a partial paper cut.
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// KickDrawer pulses the cash drawer on pin 2.
func (d *Document) KickDrawer() *Document {
	d.buf.Write([]byte{ESC, 'p', 0x00, 0x19, 0xFA})
	return d
}

func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}
