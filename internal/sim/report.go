package sim

import (
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/nbody/internal/physics"
)

// Reporter computes the total energy of a system and writes it as one line
// with nine decimal places.
type Reporter struct {
	w io.Writer
}

// NewReporter returns a Reporter writing to w; a nil w discards the lines.
func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = io.Discard
	}
	return &Reporter{w: w}
}

func (r *Reporter) Report(bodies []physics.Body, pairs []physics.Pair) (float64, error) {
	e := physics.Energy(bodies, pairs)
	if _, err := fmt.Fprintln(r.w, FormatEnergy(e)); err != nil {
		return e, fmt.Errorf("report energy: %w", err)
	}
	return e, nil
}

// FormatEnergy formats e with exactly nine digits after the decimal point.
func FormatEnergy(e float64) string {
	return strconv.FormatFloat(e, 'f', 9, 64)
}
