package orchestrator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/content"
	"github.com/spigell/jobmatch/internal/form"
	"github.com/spigell/jobmatch/internal/job"
	"github.com/spigell/jobmatch/internal/logger"
)

// PageAgent runs page-bound requests in the page's own context.
type PageAgent interface {
	ExtractJob(ctx context.Context) (*job.Posting, error)
	CheckForm(ctx context.Context) content.FormStatus
	Autofill(ctx context.Context) (*form.Result, error)
}

type Dispatcher struct {
	session *Session
	page    PageAgent
	logger  *zap.Logger
}

// NewDispatcher returns a dispatcher. page may be nil when no page is loaded.
func NewDispatcher(session *Session, page PageAgent, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{session: session, page: page, logger: log}
}

// DispatchEnvelope decodes env and dispatches it.
func (d *Dispatcher) DispatchEnvelope(ctx context.Context, env Envelope) Response {
	req, err := Decode(env)
	if err != nil {
		d.logger.Warn("rejecting request", zap.String("type", env.Type), zap.Error(err))
		return failure(err)
	}
	return d.Dispatch(ctx, req)
}

// Dispatch runs req and converts every error, panics included, into a
// failure response.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (resp Response) {
	if req == nil {
		return failure(ErrUnknownKind)
	}

	log := logger.WithRequest(d.logger, string(req.Kind()))

	defer func() {
		if r := recover(); r != nil {
			log.Error("request handler panicked", zap.Any("panic", r))
			resp = failure(fmt.Errorf("internal error: %v", r))
		}
	}()

	resp = d.handle(ctx, req)
	if !resp.Success {
		log.Warn("request failed", zap.String("error", resp.Error), zap.Strings("errors", resp.Errors))
	} else {
		log.Debug("request succeeded")
	}
	return resp
}

func (d *Dispatcher) handle(ctx context.Context, req Request) Response {
	switch r := req.(type) {
	case AnalyzeJob:
		analysis, err := d.session.AnalyzeJob(ctx, r.Job, r.Model)
		if err != nil {
			return failure(err)
		}
		return success(analysis)

	case GetSkillSuggestions:
		suggestion, err := d.session.SkillSuggestions(ctx, r.Skill, r.Model)
		if err != nil {
			return failure(err)
		}
		return success(suggestion)

	case ExtractJobData:
		if d.page == nil {
			return failure(ErrNoPage)
		}
		posting, err := d.page.ExtractJob(ctx)
		if err != nil {
			return failure(err)
		}
		return success(posting)

	case CheckFormCompatibility:
		if d.page == nil {
			return success(content.FormStatus{})
		}
		return success(d.page.CheckForm(ctx))

	case AutofillForm:
		if d.page == nil {
			return Response{Success: false, Errors: []string{ErrNoPage.Error()}}
		}
		result, err := d.page.Autofill(ctx)
		if err != nil {
			return Response{Success: false, Error: err.Error(), Errors: []string{err.Error()}}
		}
		return Response{Success: result.Filled, Data: result, Errors: result.Errors}

	default:
		return failure(ErrUnknownKind)
	}
}
