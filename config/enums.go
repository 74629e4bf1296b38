package config

import "fmt"

// Specification of requested output type.
type OutputFmt int

const (
	OutputFmtSvg OutputFmt = iota
	OutputFmtPng
	OutputFmtPdf
)

var outputFmtNames = [...]string{"svg", "png", "pdf"}

func (o OutputFmt) String() string {
	if o < 0 || int(o) >= len(outputFmtNames) {
		return fmt.Sprintf("OutputFmt(%d)", int(o))
	}
	return outputFmtNames[o]
}

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtSvg:
		return ".svg"
	case OutputFmtPng:
		return ".png"
	case OutputFmtPdf:
		return ".pdf"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

// ParseOutputFmt converts format name to its value.
func ParseOutputFmt(name string) (OutputFmt, error) {
	for i, n := range outputFmtNames {
		if n == name {
			return OutputFmt(i), nil
		}
	}
	return 0, fmt.Errorf("%q is not a valid output format", name)
}

// OutputFmtNames returns all supported format names.
func OutputFmtNames() []string {
	return outputFmtNames[:]
}
