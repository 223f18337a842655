package submission

// Feedback receives the pipeline's user-visible side effects. Implementations
// drive a UI: a disabled submit control, notices, resetting the form.
type Feedback interface {
	// Busy is called once validation passed, with the submit control label.
	Busy(label string)
	// Idle is called when the submission finished, however it ended.
	Idle()
	ShowInvalid(err *ValidationError)
	ShowSuccess(r Receipt)
	ShowFailure(err *AllTransportsFailedError)
	ResetForm()
}

// NopFeedback ignores everything.
type NopFeedback struct{}

func (NopFeedback) Busy(string)                           {}
func (NopFeedback) Idle()                                 {}
func (NopFeedback) ShowInvalid(*ValidationError)          {}
func (NopFeedback) ShowSuccess(Receipt)                   {}
func (NopFeedback) ShowFailure(*AllTransportsFailedError) {}
func (NopFeedback) ResetForm()                            {}
