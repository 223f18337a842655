package main

import (
	"fmt"
	"io"

	"github.com/metalstreets/contact-backend/pkg/submission"
)

// terminalFeedback prints the pipeline's notices to a terminal.
type terminalFeedback struct {
	out io.Writer
}

func (f terminalFeedback) Busy(label string) { fmt.Fprintln(f.out, label) }

func (f terminalFeedback) Idle() {}

func (f terminalFeedback) ShowInvalid(err *submission.ValidationError) {
	fmt.Fprintln(f.out, "Please fix the following before submitting:")
	for _, fe := range err.Fields {
		fmt.Fprintf(f.out, "  - %s\n", fe.Message)
	}
}

func (f terminalFeedback) ShowSuccess(r submission.Receipt) {
	fmt.Fprintln(f.out, r.Notice)
	fmt.Fprintf(f.out, "(delivered via %s after %d attempt(s))\n", r.Transport, r.Attempts)
}

func (f terminalFeedback) ShowFailure(err *submission.AllTransportsFailedError) {
	fmt.Fprintln(f.out, err.Error())
	for _, a := range err.Attempts {
		fmt.Fprintf(f.out, "  - %s\n", a.Error())
	}
}

func (f terminalFeedback) ResetForm() {}
