package cli

import (
	"fmt"
	"strings"

	"github.com/roach88/batchop/internal/invoke"
)

// RenderReport renders an outcome as the markdown report shown after a run:
// a Success/Error heading, the message, and fenced Output and Error sections
// when present.
func RenderReport(out invoke.Outcome) string {
	var b strings.Builder
	title := "Error"
	if out.Success {
		title = "Success"
	}
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", title, out.Message)
	if out.Output != "" {
		fmt.Fprintf(&b, "## Output\n```\n%s\n```\n\n", out.Output)
	}
	if out.Error != "" {
		fmt.Fprintf(&b, "## Error\n```\n%s\n```\n\n", out.Error)
	}
	if out.Truncated {
		b.WriteString("_Output was truncated._\n\n")
	}
	return b.String()
}
