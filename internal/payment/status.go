package payment

// Status is the provider's order state. Values outside the known set parse
// to StatusUnrecognized instead of being compared as raw strings.
type Status string

const (
	StatusCreated             Status = "CREATED"
	StatusSaved               Status = "SAVED"
	StatusApproved            Status = "APPROVED"
	StatusVoided              Status = "VOIDED"
	StatusCompleted           Status = "COMPLETED"
	StatusPayerActionRequired Status = "PAYER_ACTION_REQUIRED"
	StatusUnrecognized        Status = "UNRECOGNIZED"
)

var knownStatuses = map[Status]bool{
	StatusCreated:             true,
	StatusSaved:               true,
	StatusApproved:            true,
	StatusVoided:              true,
	StatusCompleted:           true,
	StatusPayerActionRequired: true,
}

func ParseStatus(raw string) Status {
	if s := Status(raw); knownStatuses[s] {
		return s
	}
	return StatusUnrecognized
}

type Verdict int

const (
	NotCompleted Verdict = iota
	Completed
)

func (v Verdict) String() string {
	if v == Completed {
		return "completed"
	}
	return "not_completed"
}

// VerdictFor classifies a provider status; only COMPLETED counts as paid.
func VerdictFor(s Status) Verdict {
	if s == StatusCompleted {
		return Completed
	}
	return NotCompleted
}
