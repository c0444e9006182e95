package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldRequestID is the structured log field key for the X-Request-ID sent with an analysis.
	FieldRequestID = "request_id"
	// FieldCVFile is the structured log field key for the uploaded CV file name.
	FieldCVFile = "cv_file"
	// FieldJDFile is the structured log field key for the uploaded job description file name.
	FieldJDFile = "jd_file"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger is replaced with a no-op one.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// SubmissionFields returns the fields describing a single analysis submission.
// Empty values are skipped, so a text-only job description produces no jd_file field.
func SubmissionFields(requestID, cvFile, jdFile string) []zap.Field {
	return StringFields(
		StringField{Key: FieldRequestID, Value: requestID},
		StringField{Key: FieldCVFile, Value: cvFile},
		StringField{Key: FieldJDFile, Value: jdFile},
	)
}

// WithSubmission attaches the submission fields to the provided logger.
func WithSubmission(logger *zap.Logger, requestID, cvFile, jdFile string) *zap.Logger {
	return WithFields(logger, SubmissionFields(requestID, cvFile, jdFile)...)
}
