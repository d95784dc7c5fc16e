package methods

// Outcome is the terminal state of one package for one run
type Outcome string

const (
	// OutcomeAlreadyPresent means the presence check succeeded and no
	// install was attempted
	OutcomeAlreadyPresent Outcome = "already-present"
	// OutcomeInstalled means the install command completed successfully
	OutcomeInstalled Outcome = "installed"
	// OutcomeFailed means the install command returned nonzero
	OutcomeFailed Outcome = "failed"
	// OutcomeSkipped means no recognized method applied, or a method
	// prerequisite (such as authentication) was absent
	OutcomeSkipped Outcome = "skipped"
)
