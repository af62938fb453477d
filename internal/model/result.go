package model

// Status classifies the outcome of processing one input file.
type Status string

const (
	StatusScrubbed  Status = "scrubbed"
	StatusSkipped   Status = "skipped"
	StatusDuplicate Status = "duplicate"
	StatusError     Status = "error"
)

// ScrubResult is the outcome of attempting to process one candidate.
type ScrubResult struct {
	Input  string
	Output string
	Status Status

	// ErrorMessage holds the first stderr line from the metadata tool when
	// Status is StatusError.
	ErrorMessage string

	// DuplicatePath is set when a duplicate was moved to the errors
	// directory under the move policy; empty under the delete policy.
	DuplicatePath string

	// SkipReason explains a StatusSkipped outcome ("temp", "unstable").
	SkipReason string
}

func Scrubbed(input, output string) ScrubResult {
	return ScrubResult{Input: input, Output: output, Status: StatusScrubbed}
}

func Skipped(input, reason string) ScrubResult {
	return ScrubResult{Input: input, Status: StatusSkipped, SkipReason: reason}
}

func Duplicate(input, quarantine string) ScrubResult {
	return ScrubResult{Input: input, Status: StatusDuplicate, DuplicatePath: quarantine}
}

func Errored(input, msg string) ScrubResult {
	return ScrubResult{Input: input, Status: StatusError, ErrorMessage: msg}
}
