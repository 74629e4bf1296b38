package canvas

import (
	"fmt"
	"os"
	"strconv"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// Render serializes the composed document: root svg element sized to the
// canvas, optional background rectangle, then one group per fragment in
// insertion order. Rendering never mutates stored fragments, repeated calls
// produce byte-identical output.
func (c *Canvas) Render() (string, error) {
	doc := etree.NewDocument()
	doc.WriteSettings = etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}

	root := doc.CreateElement("svg")
	root.CreateAttr("xmlns", svgNS)
	root.CreateAttr("width", fmtNum(c.width))
	root.CreateAttr("height", fmtNum(c.height))
	root.CreateAttr("viewBox", "0 0 "+fmtNum(c.width)+" "+fmtNum(c.height))

	if len(c.background) > 0 && c.background != "transparent" {
		rect := root.CreateElement("rect")
		rect.CreateAttr("width", "100%")
		rect.CreateAttr("height", "100%")
		rect.CreateAttr("fill", c.background)
	}

	for i := range c.items {
		c.splice(root, &c.items[i])
	}

	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("unable to serialize composed SVG: %w", err)
	}
	return out, nil
}

// SaveSVG renders the composed document and writes it to path.
func (c *Canvas) SaveSVG(path string) error {
	out, err := c.Render()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return fmt.Errorf("unable to write composed SVG: %w", err)
	}
	c.log.Debug("Composed SVG written", zap.String("file", path), zap.Int("fragments", len(c.items)))
	return nil
}

// splice appends a group mapping the fragment's native viewport onto its
// placement rectangle and moves deep copies of the fragment's child nodes
// into it. Attributes, text and nested defs pass through untouched; nothing
// is clipped - fragments may bleed past the canvas bounds.
func (c *Canvas) splice(parent *etree.Element, item *fragment) {
	vp := sourceViewport(item.root)
	sx := item.at.Width / vp.W
	sy := item.at.Height / vp.H

	transform := "translate(" + fmtNum(item.at.X) + " " + fmtNum(item.at.Y) + ")" +
		" scale(" + fmtNum(sx) + " " + fmtNum(sy) + ")"
	if vp.MinX != 0 || vp.MinY != 0 {
		transform += " translate(" + fmtNum(-vp.MinX) + " " + fmtNum(-vp.MinY) + ")"
	}

	group := parent.CreateElement("g")
	group.CreateAttr("transform", transform)

	// Namespace declarations live on the source root which is not copied, so
	// prefixes used inside the fragment (xlink and friends) must be
	// re-declared on the group.
	for _, a := range item.root.Attr {
		if a.Space == "xmlns" {
			group.CreateAttr(a.Space+":"+a.Key, a.Value)
		} else if a.Space == "" && a.Key == "xmlns" && a.Value != svgNS {
			group.CreateAttr(a.Key, a.Value)
		}
	}

	// Copy first, then move: AddChild reparents tokens, and stored fragments
	// must stay intact for the next Render call.
	dup := item.root.Copy()
	children := make([]etree.Token, len(dup.Child))
	copy(children, dup.Child)
	for _, tok := range children {
		group.AddChild(tok)
	}
}

// fmtNum renders a coordinate the shortest exact way, no exponent for the
// value ranges SVG uses.
func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
