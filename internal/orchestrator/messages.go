package orchestrator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/jobmatch/internal/job"
)

// Kind names a request on the wire.
type Kind string

const (
	KindAnalyzeJob             Kind = "ANALYZE_JOB"
	KindGetSkillSuggestions    Kind = "GET_SKILL_SUGGESTIONS"
	KindExtractJobData         Kind = "EXTRACT_JOB_DATA"
	KindCheckFormCompatibility Kind = "CHECK_FORM_COMPATIBILITY"
	KindAutofillForm           Kind = "AUTOFILL_FORM"
)

var ErrUnknownKind = errors.New("Unknown message type")

// Kinds lists every request kind the dispatcher handles.
func Kinds() []Kind {
	return []Kind{
		KindAnalyzeJob,
		KindGetSkillSuggestions,
		KindExtractJobData,
		KindCheckFormCompatibility,
		KindAutofillForm,
	}
}

// Request is implemented only by the request types of this package.
type Request interface {
	Kind() Kind
	request()
}

type AnalyzeJob struct {
	Job   job.Posting `mapstructure:",squash"`
	Model string      `mapstructure:"model"`
}

type GetSkillSuggestions struct {
	Skill string `mapstructure:"skill"`
	Model string `mapstructure:"model"`
}

type ExtractJobData struct{}

type CheckFormCompatibility struct{}

type AutofillForm struct{}

func (AnalyzeJob) Kind() Kind             { return KindAnalyzeJob }
func (GetSkillSuggestions) Kind() Kind    { return KindGetSkillSuggestions }
func (ExtractJobData) Kind() Kind         { return KindExtractJobData }
func (CheckFormCompatibility) Kind() Kind { return KindCheckFormCompatibility }
func (AutofillForm) Kind() Kind           { return KindAutofillForm }

func (AnalyzeJob) request()             {}
func (GetSkillSuggestions) request()    {}
func (ExtractJobData) request()         {}
func (CheckFormCompatibility) request() {}
func (AutofillForm) request()           {}

// Envelope is a request as it travels between components.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Response is the uniform reply to every request.
type Response struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func success(data any) Response { return Response{Success: true, Data: data} }

func failure(err error) Response { return Response{Success: false, Error: err.Error()} }

// Decode turns an envelope into its typed request.
func Decode(env Envelope) (Request, error) {
	switch Kind(strings.TrimSpace(env.Type)) {
	case KindAnalyzeJob:
		var req AnalyzeJob
		data, _ := env.Data.(map[string]any)
		if err := decode(normaliseJobData(data), &req); err != nil {
			return nil, fmt.Errorf("decode %s: %w", KindAnalyzeJob, err)
		}
		return req, nil
	case KindGetSkillSuggestions:
		var req GetSkillSuggestions
		switch data := env.Data.(type) {
		case string:
			req.Skill = data
		case map[string]any:
			if err := decode(data, &req); err != nil {
				return nil, fmt.Errorf("decode %s: %w", KindGetSkillSuggestions, err)
			}
		}
		return req, nil
	case KindExtractJobData:
		return ExtractJobData{}, nil
	case KindCheckFormCompatibility:
		return CheckFormCompatibility{}, nil
	case KindAutofillForm:
		return AutofillForm{}, nil
	default:
		return nil, ErrUnknownKind
	}
}

// normaliseJobData drops requirements that are not a list.
func normaliseJobData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if v == nil {
			continue
		}
		out[k] = v
	}
	if _, ok := out["requirements"].([]any); !ok {
		if _, ok := out["requirements"].([]string); !ok {
			delete(out, "requirements")
		}
	}
	return out
}

func decode(input map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
