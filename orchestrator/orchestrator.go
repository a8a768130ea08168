// Package orchestrator is the glue between runtime dispatch, admission
// control, the static security filter, and the subprocess runner. It owns
// the single place where an admission slot is acquired and released, so
// every exit path after admission (filter rejection, execution outcome, or
// a recovered panic) releases exactly once. Dispatch rejection returns
// before any slot is acquired.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cretz/sandboxd/admission"
	"github.com/cretz/sandboxd/config"
	"github.com/cretz/sandboxd/executor"
	"github.com/cretz/sandboxd/limits"
	"github.com/cretz/sandboxd/metrics"
	"github.com/cretz/sandboxd/runtime"
	"github.com/cretz/sandboxd/security"
)

// Code is the application-level status carried in the response envelope's
// `code` field, distinct from the HTTP status.
type Code int

const (
	CodeOK            Code = 0
	CodeBadLanguage   Code = 400
	CodeInternalError Code = 500
)

// Result is the fully-formed decision for one submission; httpapi maps it
// onto the HTTP envelope and status code.
type Result struct {
	Code    Code
	Message string
	Stdout  string
	Error   string
}

// Submission is one POST /v1/sandbox/run request body. Obj is optional
// base64-encoded JSON handed to a user-defined main(obj) entry point.
type Submission struct {
	Language string
	Code     string
	Obj      string
}

// Orchestrator wires the pipeline together behind a single Run operation.
type Orchestrator struct {
	registry  *runtime.Registry
	admission *admission.Controller
	limitsCfg config.ResourceLimitConfig
	runner    executor.Runner
	metrics   *metrics.Metrics
}

// New builds an Orchestrator from the loaded config and its dependent
// components.
func New(cfg config.Config, reg *runtime.Registry, adm *admission.Controller, runner executor.Runner, m *metrics.Metrics) *Orchestrator {
	return &Orchestrator{
		registry:  reg,
		admission: adm,
		limitsCfg: cfg.ResourceLimits,
		runner:    runner,
		metrics:   m,
	}
}

// ErrQueueFull is returned verbatim from admission so httpapi can map it to
// HTTP 429 without inspecting envelope contents.
var ErrQueueFull = admission.ErrQueueFull

const endpointRun = "run"

// Run executes the full dispatch, admit, filter, execute pipeline for one
// submission. It never panics across its own boundary: any panic from the
// runner is recovered, translated into an internal-error Result, and the
// admission slot is still released before returning.
func (o *Orchestrator) Run(ctx context.Context, sub Submission) (result Result, err error) {
	desc, ok := o.registry.Resolve(sub.Language)
	if !ok {
		return Result{
			Code:    CodeBadLanguage,
			Message: "bad request",
			Error:   fmt.Sprintf("Unsupported language: %s", sub.Language),
		}, nil
	}

	slot, admitErr := o.admission.Acquire(ctx)
	if admitErr != nil {
		if admitErr == admission.ErrQueueFull {
			return Result{}, ErrQueueFull
		}
		return Result{}, admitErr
	}
	defer slot.Release()

	o.metrics.RequestsTotal.WithLabelValues(sub.Language, endpointRun).Inc()
	admittedAt := time.Now()
	defer func() {
		o.metrics.RequestDuration.WithLabelValues(sub.Language).Observe(time.Since(admittedAt).Seconds())
	}()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("orchestrator: recovered panic running %v submission: %v", sub.Language, r)
			result = Result{Code: CodeInternalError, Message: "internal error", Error: fmt.Sprintf("%v", r)}
			err = nil
		}
	}()

	if reason := security.Check(sub.Code, desc.Family, desc.AllowedModules); reason != "" {
		return Result{Code: CodeOK, Message: "ok", Stdout: "", Error: reason}, nil
	}

	l := limits.Resolve(o.limitsCfg, desc.Family)
	command, args := executor.BuildInvocation(desc, sub.Code, sub.Obj)

	outcome, runErr := o.runner.Run(ctx, command, args, l)
	if runErr != nil {
		log.Printf("orchestrator: running %v submission: %v", sub.Language, runErr)
		return Result{Code: CodeInternalError, Message: "internal error", Error: runErr.Error()}, nil
	}

	return Result{
		Code:    CodeOK,
		Message: "ok",
		Stdout:  outcome.Stdout,
		Error:   outcome.Error,
	}, nil
}
