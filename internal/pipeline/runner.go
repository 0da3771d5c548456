package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// Job and run statuses as written to the run report.
const (
	StatusSuccess  = "success"
	StatusFailure  = "failure"
	StatusSkipped  = "skipped"
	StatusCanceled = "canceled"
)

// StepResult records the outcome of a single step.
type StepResult struct {
	Name     string        `json:"name"`
	Status   string        `json:"status"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
}

// JobResult records the outcome of a job and its steps.
type JobResult struct {
	ID         string       `json:"id"`
	Name       string       `json:"name,omitempty"`
	Status     string       `json:"status"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Steps      []StepResult `json:"steps"`
	Error      string       `json:"error,omitempty"`
}

// RunReport is the JSON document describing one workflow run.
type RunReport struct {
	RunID      string      `json:"run_id"`
	Workflow   string      `json:"workflow"`
	Status     string      `json:"status"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	Waves      [][]string  `json:"waves"`
	Jobs       []JobResult `json:"jobs"`
}

// Runner executes a workflow: waves run sequentially and jobs inside a wave
// run in parallel. A failing job cancels its in-flight wave siblings and
// skips its dependents; jobs whose needs all succeeded keep running.
type Runner struct {
	secrets   Secrets
	artifacts *ArtifactStore
	out       io.Writer
	dryRun    bool
	jobTimeout time.Duration
	now       func() time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithDryRun logs what would run without executing any step.
func WithDryRun(dry bool) RunnerOption {
	return func(r *Runner) { r.dryRun = dry }
}

// WithJobTimeout bounds the wall time of each job. Zero means no limit.
func WithJobTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) { r.jobTimeout = d }
}

// WithArtifactStore uploads job logs and the run report after the run.
func WithArtifactStore(store *ArtifactStore) RunnerOption {
	return func(r *Runner) { r.artifacts = store }
}

// WithOutput redirects runner logs; defaults to stdout.
func WithOutput(w io.Writer) RunnerOption {
	return func(r *Runner) { r.out = w }
}

// NewRunner constructs a Runner with the given secrets.
func NewRunner(secrets Secrets, opts ...RunnerOption) *Runner {
	r := &Runner{
		secrets: secrets,
		out:     os.Stdout,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the workflow and returns the run report. The report is
// returned even when the run fails so callers can upload or inspect it;
// err is non-nil whenever the run status is not success.
func (r *Runner) Run(ctx context.Context, wf *Workflow) (*RunReport, error) {
	waves, err := wf.Waves()
	if err != nil {
		return nil, err
	}

	report := &RunReport{
		RunID:     uuid.New().String(),
		Workflow:  wf.Name,
		StartedAt: r.now(),
		Waves:     waves,
	}
	r.logJSON("info", "run_started", map[string]any{
		"run_id":   report.RunID,
		"workflow": wf.Name,
		"waves":    len(waves),
		"jobs":     len(wf.Jobs),
		"dry_run":  r.dryRun,
	})

	var (
		mu      sync.Mutex
		results = make(map[string]*JobResult, len(wf.Jobs))
		logs    = make(map[string]*bytes.Buffer, len(wf.Jobs))
	)

	var runErr error
	// Jobs that failed, were canceled, or were skipped. A job is skipped only
	// when one of its needs is in this set; jobs on an unaffected path keep
	// running after a failure elsewhere.
	blocked := make(map[string]bool, len(wf.Jobs))
	for wi, wave := range waves {
		runnable := make([]string, 0, len(wave))
		for _, id := range wave {
			if needsBlocked(wf.Jobs[id].Needs, blocked) {
				results[id] = &JobResult{ID: id, Name: wf.Jobs[id].Name, Status: StatusSkipped}
				blocked[id] = true
				r.logJSON("info", "job_skipped", map[string]any{"run_id": report.RunID, "job": id})
				continue
			}
			runnable = append(runnable, id)
		}
		if len(runnable) == 0 {
			continue
		}

		g, waveCtx := errgroup.WithContext(ctx)
		for _, id := range runnable {
			id := id
			g.Go(func() error {
				res, jobLog := r.runJob(waveCtx, wf, id)
				mu.Lock()
				results[id] = res
				logs[id] = jobLog
				mu.Unlock()
				if res.Status != StatusSuccess {
					return fmt.Errorf("job %s: %s", id, res.Error)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			if runErr == nil {
				runErr = err
			}
			for _, id := range runnable {
				if res, ok := results[id]; ok && res.Status != StatusSuccess {
					blocked[id] = true
				}
			}
			r.logJSON("error", "wave_failed", map[string]any{
				"run_id": report.RunID,
				"wave":   wi + 1,
				"error":  r.secrets.Redact(err.Error()),
			})
		}
	}

	report.FinishedAt = r.now()
	report.Status = StatusSuccess
	if runErr != nil {
		report.Status = StatusFailure
		if ctx.Err() != nil {
			report.Status = StatusCanceled
		}
	}

	// Stable job order in the report regardless of completion order.
	for _, id := range wf.JobOrder {
		if res, ok := results[id]; ok {
			report.Jobs = append(report.Jobs, *res)
		} else {
			report.Jobs = append(report.Jobs, JobResult{ID: id, Name: wf.Jobs[id].Name, Status: StatusCanceled})
		}
	}

	if r.artifacts != nil && !r.dryRun {
		r.uploadArtifacts(ctx, report, logs)
	}

	r.logJSON("info", "run_finished", map[string]any{
		"run_id": report.RunID,
		"status": report.Status,
	})
	if runErr != nil {
		return report, runErr
	}
	return report, nil
}

func (r *Runner) runJob(ctx context.Context, wf *Workflow, id string) (*JobResult, *bytes.Buffer) {
	job := wf.Jobs[id]
	res := &JobResult{ID: id, Name: job.Name, StartedAt: r.now()}
	jobLog := &bytes.Buffer{}

	tracer := otel.Tracer("coursedeck/pipeline")
	ctx, span := tracer.Start(ctx, "job "+id)
	span.SetAttributes(
		attribute.String("pipeline.job", id),
		attribute.Int("pipeline.steps", len(job.Steps)),
	)
	defer span.End()

	if r.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.jobTimeout)
		defer cancel()
	}

	r.logJSON("info", "job_started", map[string]any{"job": id, "steps": len(job.Steps)})

	env, err := r.jobEnv(wf, job)
	if err != nil {
		res.Status = StatusFailure
		res.Error = r.secrets.Redact(err.Error())
		res.FinishedAt = r.now()
		span.SetStatus(codes.Error, "env interpolation failed")
		return res, jobLog
	}

	for _, step := range job.Steps {
		stepRes := r.runStep(ctx, step, env, jobLog)
		res.Steps = append(res.Steps, stepRes)
		if stepRes.Status == StatusFailure || stepRes.Status == StatusCanceled {
			res.Status = stepRes.Status
			res.Error = stepRes.Error
			res.FinishedAt = r.now()
			span.SetStatus(codes.Error, stepRes.Error)
			r.logJSON("error", "job_failed", map[string]any{"job": id, "step": stepRes.Name, "error": stepRes.Error})
			return res, jobLog
		}
	}

	res.Status = StatusSuccess
	res.FinishedAt = r.now()
	r.logJSON("info", "job_finished", map[string]any{"job": id, "status": res.Status})
	return res, jobLog
}

func (r *Runner) runStep(ctx context.Context, step Step, jobEnv []string, jobLog *bytes.Buffer) StepResult {
	name := step.Name
	if name == "" {
		if step.Uses != "" {
			name = step.Uses
		} else {
			name = "run"
		}
	}
	start := r.now()

	// Action references have no local implementation; they are recorded and
	// skipped so workflows written for a hosted runner still parse and run.
	if step.Uses != "" {
		fmt.Fprintf(jobLog, "## %s (uses %s): skipped\n", name, step.Uses)
		return StepResult{Name: name, Status: StatusSkipped, Duration: r.now().Sub(start)}
	}

	script, err := r.secrets.Interpolate(step.Run)
	if err != nil {
		return StepResult{Name: name, Status: StatusFailure, Duration: r.now().Sub(start), Error: err.Error()}
	}
	stepEnv, err := r.secrets.InterpolateEnv(step.Env)
	if err != nil {
		return StepResult{Name: name, Status: StatusFailure, Duration: r.now().Sub(start), Error: err.Error()}
	}

	if r.dryRun {
		fmt.Fprintf(jobLog, "## %s: would run: %s\n", name, r.secrets.Redact(script))
		return StepResult{Name: name, Status: StatusSkipped, Duration: r.now().Sub(start)}
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", script)
	cmd.Env = append(append([]string{}, jobEnv...), flattenEnv(stepEnv)...)

	out, err := cmd.CombinedOutput()
	fmt.Fprintf(jobLog, "## %s\n%s", name, r.secrets.Redact(string(out)))

	if err != nil {
		// Killed by fail-fast cancellation, not a defect of this job. A job
		// timeout surfaces as DeadlineExceeded and stays a failure.
		if ctx.Err() == context.Canceled {
			return StepResult{
				Name:     name,
				Status:   StatusCanceled,
				Duration: r.now().Sub(start),
				Error:    ctx.Err().Error(),
			}
		}
		return StepResult{
			Name:     name,
			Status:   StatusFailure,
			Duration: r.now().Sub(start),
			Error:    r.secrets.Redact(err.Error()),
		}
	}
	return StepResult{Name: name, Status: StatusSuccess, Duration: r.now().Sub(start)}
}

// jobEnv builds the process environment for a job: the parent environment,
// then workflow env, then job env, with secret references expanded.
func (r *Runner) jobEnv(wf *Workflow, job *Job) ([]string, error) {
	wfEnv, err := r.secrets.InterpolateEnv(wf.Env)
	if err != nil {
		return nil, err
	}
	jEnv, err := r.secrets.InterpolateEnv(job.Env)
	if err != nil {
		return nil, err
	}
	env := append([]string{}, os.Environ()...)
	env = append(env, flattenEnv(wfEnv)...)
	env = append(env, flattenEnv(jEnv)...)
	return env, nil
}

func (r *Runner) uploadArtifacts(ctx context.Context, report *RunReport, logs map[string]*bytes.Buffer) {
	ids := make([]string, 0, len(logs))
	for id := range logs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if logs[id].Len() == 0 {
			continue
		}
		if _, err := r.artifacts.UploadLog(ctx, report.RunID, id, logs[id].Bytes()); err != nil {
			r.logJSON("error", "artifact_upload_failed", map[string]any{"run_id": report.RunID, "job": id, "error": err.Error()})
		}
	}
	if _, err := r.artifacts.UploadReport(ctx, report); err != nil {
		r.logJSON("error", "artifact_upload_failed", map[string]any{"run_id": report.RunID, "artifact": "report", "error": err.Error()})
	}
}

// needsBlocked reports whether any direct dependency did not succeed. Since a
// need always sits in an earlier wave, checking direct needs against the
// blocked set propagates transitively.
func needsBlocked(needs StringList, blocked map[string]bool) bool {
	for _, dep := range needs {
		if blocked[dep] {
			return true
		}
	}
	return false
}

func flattenEnv(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(env))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}

func (r *Runner) logJSON(level, msg string, fields map[string]any) {
	entry := map[string]any{
		"ts":    r.now().Format(time.RFC3339Nano),
		"level": level,
		"msg":   msg,
	}
	for k, v := range fields {
		entry[k] = v
	}
	if b, err := json.Marshal(entry); err == nil {
		fmt.Fprintln(r.out, string(b))
	}
}
