package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
)

// formPromptInstruction is the fixed task instruction appended to the user's
// description. It pins down the JSON shape and the closed fieldType
// enumeration the parser and materializer expect.
const formPromptInstruction = "Based on the description, generate a survey object with 3 fields: " +
	"name(string) for the form, description(string) of the form and a questions array where every " +
	"element has 2 fields: text and the fieldType and fieldType can be of these options RadioGroup, " +
	"Select, Input, Textarea, Switch; and return it in json format. For RadioGroup, and Select types " +
	"also return fieldOptions array with text and value fields. For example, for RadioGroup, and " +
	"Select types, the field options array can be [{text: 'Yes', value: 'yes'}, {text: 'No', value: 'no'}] " +
	"and for Input, Textarea, and Switch types, the field options array can be empty. For example, " +
	"for Input, Textarea, and Switch types, the field options array can be []"

// rawResponsePreviewLimit caps how much of a bad completion ends up in logs
const rawResponsePreviewLimit = 500

// Generation errors
var (
	ErrEmptyDescription       = errors.New("description is required")
	ErrGeneratorNotConfigured = errors.New("form generator is not configured")
)

// User-facing messages for each failure class. The orchestrator is the
// single place where internal failure kinds map to strings shown to users.
const (
	MsgEmptyDescription     = "Description is required"
	MsgGeneratorUnavailable = "Form generation is currently unavailable. Please try again later."
	MsgInvalidAIResponse    = "AI response was not valid JSON. Please try again."
	MsgGenerationFailed     = "Failed to generate form. Please try again later."
)

// FormGenerator drives one generation request end to end: validate the
// prompt, call the model, parse the completion, materialize the form.
type FormGenerator struct {
	db      *gorm.DB
	client  CompletionClient
	timeout time.Duration
}

// NewFormGenerator wires the orchestrator. timeout bounds the model call;
// a timeout surfaces to the caller as a retryable failure, the same class
// as a parse failure.
func NewFormGenerator(db *gorm.DB, client CompletionClient, timeout time.Duration) *FormGenerator {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &FormGenerator{db: db, client: client, timeout: timeout}
}

// Generate runs the full pipeline and returns the new form's id.
// ownerUserID may be empty for anonymous generation. Failures are tagged
// errors; map them to user-facing strings with UserMessage.
func (g *FormGenerator) Generate(ctx context.Context, ownerUserID, description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", ErrEmptyDescription
	}
	if g.client == nil || !g.client.Configured() {
		return "", ErrGeneratorNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := description + " " + formPromptInstruction
	raw, err := g.client.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}

	schema, err := ExtractFormSchema(raw)
	if err != nil {
		// Expected at some rate from an uncontrolled generator. Keep the raw
		// response in server logs for diagnosis, truncated.
		log.Printf("[AI] failed to parse completion: %v; raw response (truncated): %s", err, truncate(raw, rawResponsePreviewLimit))
		return "", err
	}

	formID, err := CreateForm(g.db, ownerUserID, schema)
	if err != nil {
		return "", fmt.Errorf("failed to materialize form: %w", err)
	}

	return formID, nil
}

// UserMessage maps an error returned by Generate to the message shown to
// the caller. Parse failures and timeouts are retryable; everything else is
// reported generically with full detail kept server-side.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrEmptyDescription):
		return MsgEmptyDescription
	case errors.Is(err, ErrGeneratorNotConfigured):
		return MsgGeneratorUnavailable
	case errors.Is(err, ErrNoJSONFound),
		errors.Is(err, ErrMalformedJSON),
		errors.Is(err, context.DeadlineExceeded):
		return MsgInvalidAIResponse
	default:
		return MsgGenerationFailed
	}
}
