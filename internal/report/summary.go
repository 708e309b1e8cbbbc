package report

import (
	"fmt"
	"io"

	"github.com/backmassage/canary/internal/display"
	"github.com/backmassage/canary/internal/pipeline"
)

// writeSummary prints the closing block for table and delete runs. Delete
// runs report the deleted count in place of the match counts.
func writeSummary(w io.Writer, root string, res pipeline.RunResult, deleted bool) {
	fmt.Fprintf(w, "\nPath Processed: %s\n", root)
	if deleted {
		fmt.Fprintf(w, "Files Deleted: %d\n", res.Passed)
	} else {
		fmt.Fprintf(w, "Files Processed: %d\n", res.Processed)
		fmt.Fprintf(w, "Files that Match Criteria: %d\n", res.Passed)
		fmt.Fprintf(w, "Files that don't Match Criteria: %d\n", res.Failed)
	}
	fmt.Fprintf(w, "Sum of File Sizes: %s\n", display.FormatBytes(res.SizeSum))
	fmt.Fprintf(w, "Files that Produced Errors: %d\n", res.Errored)
	for _, e := range res.Errors {
		fmt.Fprintf(w, "   %s\n", e)
	}
	fmt.Fprintln(w)
}
