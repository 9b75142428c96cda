package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultFormName is used when the model omits or mistypes the form name
	DefaultFormName = "Untitled Form"
	// DefaultFormDescription is used when the model omits or mistypes the description
	DefaultFormDescription = "No description provided"
)

// Parser errors
var (
	ErrNoJSONFound   = errors.New("no JSON object found in AI response")
	ErrMalformedJSON = errors.New("malformed JSON in AI response")
)

// MalformedJSONError carries the extracted candidate for server-side
// diagnostics. The candidate is never shown to end users verbatim.
type MalformedJSONError struct {
	Candidate string
	Err       error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("malformed JSON in AI response: %v", e.Err)
}

func (e *MalformedJSONError) Unwrap() error {
	return e.Err
}

func (e *MalformedJSONError) Is(target error) bool {
	return target == ErrMalformedJSON
}

// FieldOptionSchema is one choice of a Select/RadioGroup question as
// described by the model
type FieldOptionSchema struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// QuestionSchema is one question as described by the model. FieldType is
// carried through as-is; the materializer rejects values outside the
// enumeration.
type QuestionSchema struct {
	Text         string              `json:"text"`
	FieldType    string              `json:"fieldType"`
	FieldOptions []FieldOptionSchema `json:"fieldOptions"`
}

// FormSchema is the validated shape handed to the materializer
type FormSchema struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Questions   []QuestionSchema `json:"questions"`
}

// rawFormSchema defers decoding of each field so that a wrong-typed name or
// description never fails the whole parse
type rawFormSchema struct {
	Name        json.RawMessage `json:"name"`
	Description json.RawMessage `json:"description"`
	Questions   json.RawMessage `json:"questions"`
}

type rawQuestionSchema struct {
	Text         json.RawMessage `json:"text"`
	FieldType    json.RawMessage `json:"fieldType"`
	FieldOptions json.RawMessage `json:"fieldOptions"`
}

// ExtractFormSchema converts a raw completion from the model into a
// validated FormSchema. The model may wrap the JSON object in prose before
// and after it, so the candidate is the substring between the first '{' and
// the last '}'. The function is a pure transformation: it never touches the
// store and never panics on malformed input.
func ExtractFormSchema(raw string) (*FormSchema, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, ErrNoJSONFound
	}
	candidate := raw[start : end+1]

	var parsed rawFormSchema
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, &MalformedJSONError{Candidate: candidate, Err: err}
	}

	schema := &FormSchema{
		Name:        stringOrDefault(parsed.Name, DefaultFormName),
		Description: stringOrDefault(parsed.Description, DefaultFormDescription),
		Questions:   parseQuestions(parsed.Questions),
	}
	return schema, nil
}

// stringOrDefault decodes a JSON string, falling back when the field is
// absent, null, or not a string
func stringOrDefault(raw json.RawMessage, fallback string) string {
	if len(raw) == 0 {
		return fallback
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || strings.TrimSpace(s) == "" {
		return fallback
	}
	return strings.TrimSpace(s)
}

// parseQuestions decodes the questions array, defaulting to empty when the
// field is absent or not an array. Individual questions keep whatever
// fieldType the model declared; validation happens at materialization.
func parseQuestions(raw json.RawMessage) []QuestionSchema {
	if len(raw) == 0 {
		return []QuestionSchema{}
	}

	var rawQuestions []rawQuestionSchema
	if err := json.Unmarshal(raw, &rawQuestions); err != nil {
		return []QuestionSchema{}
	}

	questions := make([]QuestionSchema, 0, len(rawQuestions))
	for _, rq := range rawQuestions {
		q := QuestionSchema{
			Text:         stringOrDefault(rq.Text, ""),
			FieldType:    stringOrDefault(rq.FieldType, ""),
			FieldOptions: parseFieldOptions(rq.FieldOptions),
		}
		questions = append(questions, q)
	}
	return questions
}

// parseFieldOptions decodes a question's options, defaulting to empty
func parseFieldOptions(raw json.RawMessage) []FieldOptionSchema {
	if len(raw) == 0 {
		return []FieldOptionSchema{}
	}
	var options []FieldOptionSchema
	if err := json.Unmarshal(raw, &options); err != nil {
		return []FieldOptionSchema{}
	}
	return options
}
