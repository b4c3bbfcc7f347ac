package messaging

// Subjects follow the pattern {domain}.{resource}.{event}.
const (
	// SubjectSubmissionsCreated carries one JSON-encoded Submission per stored survey response.
	SubjectSubmissionsCreated = "survey.submissions.created"
)
