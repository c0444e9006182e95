package employee

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

var validate = validator.New()

// File is an uploaded document.
type File struct {
	Name string
	Data []byte
}

// LoadFile reads the file at path. The file type is not checked here;
// the server decides which formats it accepts.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}

	return &File{Name: filepath.Base(path), Data: data}, nil
}

// FileName returns the name of the file or an empty string for a nil file.
func (f *File) FileName() string {
	if f == nil {
		return ""
	}
	return f.Name
}

// AnalysisRequest is built fresh for every submission.
type AnalysisRequest struct {
	CV     *File  `validate:"required"`
	JDText string `validate:"required_without=JDFile"`
	JDFile *File  `validate:"required_without=JDText"`
}

// Validate checks that the CV is present and that at least one form of the job
// description is given. It does not look into the files.
func (r *AnalysisRequest) Validate() error {
	if r == nil {
		return &ValidationError{Field: "CV", Message: MessageCVRequired}
	}

	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("validating analysis request: %w", err)
	}

	for _, fe := range fieldErrors {
		if fe.StructField() == "CV" {
			return &ValidationError{Field: "CV", Message: MessageCVRequired}
		}
	}

	return &ValidationError{Field: "JD", Message: MessageJDRequired}
}

// AnalysisResult is the analysis returned by the server. Fields are not
// checked for presence; a missing one keeps its zero value.
type AnalysisResult struct {
	Match          float64  `json:"JD-Match" mapstructure:"JD-Match"`
	ProfileSummary string   `json:"Profile Summary" mapstructure:"Profile Summary"`
	MissingSkills  []string `json:"Missing Skills" mapstructure:"Missing Skills"`
}

func decodeResult(data []byte) (*AnalysisResult, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding analysis result: %w", err)
	}

	var result AnalysisResult
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &result,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding analysis result: %w", err)
	}

	return &result, nil
}
