package cmd

import (
	"fmt"
	"os"
)

// GitHub Actions workflow annotations. They surface directly in the run
// summary when the binary runs inside a workflow, and are silent everywhere
// else.

func inActions() bool { return os.Getenv("GITHUB_ACTIONS") != "" }

func annotate(kind, title, msg string) {
	if !inActions() {
		return
	}
	fmt.Printf("::%s title=%s::%s\n", kind, title, msg)
}

func annotateError(title, msg string)   { annotate("error", title, msg) }
func annotateWarning(title, msg string) { annotate("warning", title, msg) }
func annotateNotice(title, msg string)  { annotate("notice", title, msg) }
