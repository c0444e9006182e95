package employee

const (
	MessageCVRequired = "Please upload a CV file"
	MessageJDRequired = "Please provide either a job description text or upload a job description file"
)

// ValidationError is a failed presence check. It is reported before the
// network is contacted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RemoteError is a non-2xx response or a transport failure. Message is meant
// to be shown to the user as is.
type RemoteError struct {
	// StatusCode is zero for transport failures.
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	return e.Message
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
