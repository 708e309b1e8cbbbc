// Package display provides human-readable formatting helpers and the
// startup banner.
package display

import (
	"fmt"
	"io"

	"github.com/backmassage/canary/internal/term"
)

// PrintBanner writes the ASCII art banner to w, in yellow when colors are on.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Yellow)
	fmt.Fprint(w, `  ___ __ _ _ __   __ _ _ __ _   _
 / __/ _`+"`"+` | '_ \ / _`+"`"+` | '__| | | |
| (_| (_| | | | | (_| | |  | |_| |
 \___\__,_|_| |_|\__,_|_|   \__, |
                            |___/
`)
	fmt.Fprint(w, term.NC)
}
