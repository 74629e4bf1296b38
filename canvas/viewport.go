package canvas

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// defaultFragmentSize is assumed for fragments that declare no usable
// viewport at all.
const defaultFragmentSize = 100

// viewport is the fragment's native coordinate space before placement.
type viewport struct {
	MinX, MinY float64
	W, H       float64
}

// sourceViewport determines the native coordinate space of a fragment: the
// viewBox when present and positive, otherwise the width/height attributes
// with unit suffixes ignored, otherwise 100x100.
func sourceViewport(root *etree.Element) viewport {
	if vb := root.SelectAttrValue("viewBox", ""); len(vb) > 0 {
		parts := strings.Fields(strings.ReplaceAll(vb, ",", " "))
		if len(parts) == 4 {
			var vals [4]float64
			ok := true
			for i, p := range parts {
				v, err := strconv.ParseFloat(p, 64)
				if err != nil {
					ok = false
					break
				}
				vals[i] = v
			}
			if ok && vals[2] > 0 && vals[3] > 0 {
				return viewport{MinX: vals[0], MinY: vals[1], W: vals[2], H: vals[3]}
			}
		}
	}

	w := parseLength(root.SelectAttrValue("width", ""))
	h := parseLength(root.SelectAttrValue("height", ""))
	if w <= 0 {
		w = defaultFragmentSize
	}
	if h <= 0 {
		h = defaultFragmentSize
	}
	return viewport{W: w, H: h}
}

// parseLength extracts the numeric value from an SVG length attribute.
// Unit and percent suffixes are dropped, not converted - scaling against the
// placement rectangle makes absolute units meaningless here. Returns 0 when
// no leading number is found.
func parseLength(s string) float64 {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return 0
	}

	l := css.NewLexer(parse.NewInputString(s))
	tt, data := l.Next()
	switch tt {
	case css.NumberToken, css.DimensionToken, css.PercentageToken:
		return numericPrefix(string(data))
	default:
		return 0
	}
}

// numericPrefix parses the leading number of a dimension token.
func numericPrefix(s string) float64 {
	end := 0
	for ; end < len(s); end++ {
		c := s[end]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' {
			continue
		}
		// an exponent marker counts only when digits follow, otherwise it
		// starts the unit ("12em")
		if (c == 'e' || c == 'E') && end > 0 && hasExponentDigits(s[end+1:]) {
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}

func hasExponentDigits(rest string) bool {
	if len(rest) > 0 && (rest[0] == '+' || rest[0] == '-') {
		rest = rest[1:]
	}
	return len(rest) > 0 && rest[0] >= '0' && rest[0] <= '9'
}
