package domain

// RejectReason names why an attempt was sent back for another try.
type RejectReason string

const (
	RejectNone             RejectReason = ""
	RejectValidation       RejectReason = "validation_failure"
	RejectLocalSimilarity  RejectReason = "local_similarity_exceeded"
	RejectRemoteSimilarity RejectReason = "remote_similarity_exceeded"
	RejectMalformed        RejectReason = "malformed_generation"
)

// OutcomeKind tags the variant held by an Outcome.
type OutcomeKind int

const (
	OutcomeAccepted OutcomeKind = iota
	OutcomeRetry
	OutcomeFatal
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRetry:
		return "retry"
	case OutcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Outcome is the result of running one candidate through the filter stages.
// Exactly one of the variant payloads is meaningful for a given Kind:
// Candidate for Accepted, Reason/Detail for Retry, Err for Fatal.
type Outcome struct {
	Kind      OutcomeKind
	Candidate Candidate
	Reason    RejectReason
	Detail    string
	Err       error
}

// Accepted wraps a candidate that cleared every stage.
func Accepted(c Candidate) Outcome {
	return Outcome{Kind: OutcomeAccepted, Candidate: c}
}

// Retryable wraps a recoverable rejection.
func Retryable(reason RejectReason, detail string) Outcome {
	return Outcome{Kind: OutcomeRetry, Reason: reason, Detail: detail}
}

// Fatal wraps an error that must abort the run.
func Fatal(err error) Outcome {
	return Outcome{Kind: OutcomeFatal, Err: err}
}

// Scores records the similarity values computed during an attempt.
// A nil pointer means the stage did not run.
type Scores struct {
	Local  *float64
	Remote *float64
}

// AttemptReport summarizes a single generate-and-filter cycle.
type AttemptReport struct {
	Number    int
	Candidate Candidate
	Scores    Scores
	Outcome   OutcomeKind
	Reason    RejectReason
	Detail    string
}

// RunStatus is the terminal state of a batch pass.
type RunStatus string

const (
	RunStatusPublished RunStatus = "published"
	RunStatusExhausted RunStatus = "exhausted"
	RunStatusDryRun    RunStatus = "dry_run"
)

// PublishResult carries what the social platform returned for a new poll.
type PublishResult struct {
	ID  string
	URL string
}

// RunReport is the canonical response propagated back to the CLI.
type RunReport struct {
	Status    RunStatus
	Candidate *Candidate
	Published *PublishResult
	Attempts  []AttemptReport
	History   int
}
