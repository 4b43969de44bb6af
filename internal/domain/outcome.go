package domain

// Outcome is the uniform result of one dispatched tool call.
// A zero Code marks success.
type Outcome struct {
	Text string
	Code ErrorCode
}

func SuccessOutcome(text string) Outcome {
	return Outcome{Text: text}
}

func FailureOutcome(code ErrorCode, text string) Outcome {
	if code == "" {
		code = CodeUnexpected
	}
	return Outcome{Text: text, Code: code}
}

func (o Outcome) IsError() bool {
	return o.Code != ""
}

// Label is the outcome value used in logs and metrics.
func (o Outcome) Label() string {
	if o.Code == "" {
		return "success"
	}
	return string(o.Code)
}
