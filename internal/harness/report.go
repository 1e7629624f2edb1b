package harness

import (
	"fmt"
	"io"
)

// Render writes the report in human-readable form.
//
// The layout is stable: fixed column widths and deterministic ordering,
// so rendered reports are suitable for golden-file comparison.
func (r *RunReport) Render(w io.Writer) error {
	fmt.Fprintf(w, "kinematics conformance report\n")
	fmt.Fprintf(w, "run:    %s\n", r.RunID)
	fmt.Fprintf(w, "solver: %s\n", r.Solver)
	fmt.Fprintf(w, "robot:  %s  group: %s\n", r.Robot, r.Group)
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "%-20s %8s %8s %8s %8s  %s\n",
		"category", "trials", "success", "skipped", "rate", "result")
	for _, c := range r.Categories {
		result := "PASS"
		if !c.Passed() {
			result = "FAIL"
		}
		fmt.Fprintf(w, "%-20s %8d %8d %8d %8.3f  %s\n",
			c.Category, c.Trials, c.Successes, c.Skipped, c.SuccessRate(), result)
	}

	var failures int
	for _, c := range r.Categories {
		failures += len(c.Failures)
	}
	if failures > 0 {
		fmt.Fprintf(w, "\nassertion failures:\n")
		for _, c := range r.Categories {
			for _, f := range c.Failures {
				fmt.Fprintf(w, "  %s\n", f)
			}
		}
	}

	overall := "PASS"
	if !r.Passed() {
		overall = "FAIL"
	}
	fmt.Fprintf(w, "\noverall: %s\n", overall)
	return nil
}
