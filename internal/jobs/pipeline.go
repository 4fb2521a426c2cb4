package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/sevigo/pr-stream/internal/config"
	"github.com/sevigo/pr-stream/internal/core"
	"github.com/sevigo/pr-stream/internal/display"
	"github.com/sevigo/pr-stream/internal/github"
	"github.com/sevigo/pr-stream/internal/llm"
	"github.com/sevigo/pr-stream/internal/review"
	"github.com/sevigo/pr-stream/internal/stream"
)

// fetchConcurrency bounds the context fan-out.
const fetchConcurrency = 5

// CompleterFactory builds a completion client for a resolved provider.
type CompleterFactory func(cfg config.ProviderConfig) (llm.Completer, error)

// NewCompleterFactory returns a factory producing HTTP completion clients.
func NewCompleterFactory(httpClient *http.Client, logger *slog.Logger) CompleterFactory {
	return func(cfg config.ProviderConfig) (llm.Completer, error) {
		return llm.NewClient(cfg, httpClient, logger)
	}
}

// StateObserver is notified of every state transition of a run.
type StateObserver func(req core.ReviewRequest, from, to core.State)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStateObserver registers fn for state transitions.
func WithStateObserver(fn StateObserver) Option {
	return func(p *Pipeline) { p.observer = fn }
}

// Pipeline reviews pull requests: it gathers context, assembles the prompt,
// streams the completion and relays it to a display sink. Each Run owns its
// state; a Pipeline may serve concurrent runs. Concurrent runs for the same
// pull request are not deduplicated.
type Pipeline struct {
	cfg          *config.Config
	gh           github.Client
	newCompleter CompleterFactory
	prompts      *review.PromptManager
	logger       *slog.Logger
	observer     StateObserver
}

// NewPipeline creates a pipeline. gh must be authenticated with the
// credential in cfg.GitHub.Token.
func NewPipeline(cfg *config.Config, gh github.Client, newCompleter CompleterFactory, prompts *review.PromptManager, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:          cfg,
		gh:           gh,
		newCompleter: newCompleter,
		prompts:      prompts,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type reviewContext struct {
	pr       *core.PullRequest
	files    []core.ChangedFile
	feedback core.Feedback
}

// run is the state of one review request.
type run struct {
	p      *Pipeline
	req    core.ReviewRequest
	sink   display.Sink
	state  core.State
	logger *slog.Logger
}

func (r *run) transition(to core.State) {
	from := r.state
	r.state = to
	r.logger.Debug("review state changed", "from", from.String(), "state", to.String())
	if !to.Terminal() {
		r.sink.State(to)
	}
	if r.p.observer != nil {
		r.p.observer(r.req, from, to)
	}
}

// Run executes one review. It returns the finished result, or a
// *core.PipelineError and no result. The sink receives non-terminal state
// changes, every delta, and then exactly one of Complete or Failed.
func (p *Pipeline) Run(ctx context.Context, req core.ReviewRequest, sink display.Sink) (*core.ReviewResult, error) {
	logger := p.logger.With("repo", req.FullName(), "pr", req.PRNumber)
	r := &run{
		p:      p,
		req:    req,
		sink:   display.Guard(sink, logger),
		state:  core.Idle,
		logger: logger,
	}

	result, err := r.execute(ctx)
	if err != nil {
		r.transition(core.Failed)
		logger.Error("review failed", "kind", core.KindOf(err).String(), "error", err)
		r.sink.Failed(err)
		return nil, err
	}

	r.transition(core.Completed)
	logger.Info("review completed",
		"provider", result.Provider,
		"files", len(result.Files),
		"token_estimate", result.TokenUsageEstimate,
		"skipped_lines", result.DecodeWarnings,
	)
	return result, nil
}

func (r *run) execute(ctx context.Context) (*core.ReviewResult, error) {
	cfg := r.p.cfg

	providerCfg, err := r.p.checkPreconditions(r.req)
	if err != nil {
		return nil, err
	}
	r.logger = r.logger.With("provider", string(providerCfg.ID))

	r.transition(core.FetchingContext)
	rc, err := r.p.fetchContext(ctx, r.req, r.logger)
	if err != nil {
		return nil, core.NewPipelineError(core.KindContextFetch, "fetching context", err)
	}

	r.transition(core.Filtering)
	files, err := review.FilterFiles(rc.files, cfg.Review.IgnoreFiles)
	if err != nil {
		return nil, core.NewPipelineError(core.KindNoFiles, "filtering", err)
	}
	r.logger.Debug("files selected for review", "total", len(rc.files), "kept", len(files))

	r.transition(core.Assembling)
	prompt, system, err := r.p.assemble(r.req, providerCfg.ID, files, rc.feedback)
	if err != nil {
		return nil, core.NewPipelineError(core.KindAssembly, "assembling", err)
	}

	r.transition(core.Streaming)
	completer, err := r.p.newCompleter(providerCfg)
	if err != nil {
		return nil, core.NewPipelineError(core.KindConfig, "creating completion client", err)
	}

	if timeout := cfg.AI.RequestTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	base := core.ReviewResult{
		Files:    files,
		Summary:  summarize(rc.pr, files),
		Provider: string(providerCfg.ID),
		Model:    providerCfg.Model,
	}
	if rc.pr != nil {
		base.HeadSHA = rc.pr.HeadSHA
	}
	relay := stream.NewRelay(r.sink, base, r.logger)
	creq := llm.CompletionRequest{Prompt: prompt, System: system}

	var events <-chan stream.Event
	if cfg.AI.Streaming {
		events, err = completer.Stream(ctx, creq)
	} else {
		events, err = completeOnce(ctx, completer, creq)
	}
	if err != nil {
		return nil, core.NewPipelineError(core.KindProvider, "streaming", err)
	}

	result, err := relay.Consume(ctx, events)
	if err != nil {
		return nil, core.NewPipelineError(core.KindProvider, "streaming", err)
	}
	return result, nil
}

// checkPreconditions validates credentials before any network call.
func (p *Pipeline) checkPreconditions(req core.ReviewRequest) (config.ProviderConfig, error) {
	if err := validateRequest(req); err != nil {
		return config.ProviderConfig{}, core.NewPipelineError(core.KindConfig, "validating request", err)
	}
	if p.gh == nil || p.cfg.GitHub.Token == "" {
		return config.ProviderConfig{}, core.NewPipelineError(core.KindConfig, "checking credentials", errors.New("github token is not configured"))
	}
	providerCfg, err := p.cfg.Provider(req.Provider)
	if err != nil {
		return config.ProviderConfig{}, core.NewPipelineError(core.KindConfig, "selecting provider", err)
	}
	if providerCfg.APIKey == "" {
		return config.ProviderConfig{}, core.NewPipelineError(core.KindConfig, "checking credentials",
			fmt.Errorf("API key for provider %q is not configured", providerCfg.ID))
	}
	return providerCfg, nil
}

// fetchContext gathers metadata, files and feedback in parallel. Metadata and
// files are required. Feedback history is optional: a failed listing is
// logged and treated as empty.
func (p *Pipeline) fetchContext(ctx context.Context, req core.ReviewRequest, logger *slog.Logger) (*reviewContext, error) {
	rc := &reviewContext{}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	g.Go(func() error {
		pr, err := p.gh.GetPullRequest(gctx, req.Owner, req.Repo, req.PRNumber)
		if err != nil {
			return fmt.Errorf("get pull request: %w", err)
		}
		rc.pr = pr
		return nil
	})
	g.Go(func() error {
		files, err := p.gh.GetChangedFiles(gctx, req.Owner, req.Repo, req.PRNumber)
		if err != nil {
			return fmt.Errorf("get changed files: %w", err)
		}
		rc.files = files
		return nil
	})

	if p.cfg.Review.IncludeFeedback {
		g.Go(func() error {
			decisions, err := p.gh.GetReviewDecisions(gctx, req.Owner, req.Repo, req.PRNumber)
			if err != nil {
				logger.Warn("review decisions unavailable, continuing without them", "error", err)
				return nil
			}
			rc.feedback.Decisions = decisions
			return nil
		})
		g.Go(func() error {
			comments, err := p.gh.GetReviewComments(gctx, req.Owner, req.Repo, req.PRNumber)
			if err != nil {
				logger.Warn("review comments unavailable, continuing without them", "error", err)
				return nil
			}
			rc.feedback.Comments = comments
			return nil
		})
		g.Go(func() error {
			comments, err := p.gh.GetIssueComments(gctx, req.Owner, req.Repo, req.PRNumber)
			if err != nil {
				logger.Warn("issue comments unavailable, continuing without them", "error", err)
				return nil
			}
			rc.feedback.IssueComments = comments
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rc, nil
}

func (p *Pipeline) assemble(req core.ReviewRequest, provider config.ProviderID, files []core.ChangedFile, fb core.Feedback) (prompt, system string, err error) {
	model := review.ModelProvider(provider)

	tmpl, err := p.prompts.Resolve(review.ReviewPrompt, model, req.PromptTemplate, p.cfg.Review.PromptTemplate)
	if err != nil {
		return "", "", err
	}
	prompt, err = review.AssemblePrompt(tmpl, files, review.AggregateFeedback(fb))
	if err != nil {
		return "", "", err
	}

	system, err = p.prompts.Resolve(review.SystemPrompt, model, "", p.cfg.Review.SystemPrompt)
	if err != nil {
		return "", "", err
	}
	return prompt, system, nil
}

// completeOnce adapts a non-streaming completion to the event sequence the
// relay consumes.
func completeOnce(ctx context.Context, c llm.Completer, req llm.CompletionRequest) (<-chan stream.Event, error) {
	text, err := c.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	events := make(chan stream.Event, 2)
	if text != "" {
		events <- stream.Delta(text)
	}
	events <- stream.Complete()
	close(events)
	return events, nil
}

// summarize reports the change size from pull request metadata, falling back
// to the reviewed files when the metadata carries no counts.
func summarize(pr *core.PullRequest, files []core.ChangedFile) core.Summary {
	if pr != nil && (pr.ChangedFiles > 0 || pr.Additions > 0 || pr.Deletions > 0) {
		return core.Summary{TotalFiles: pr.ChangedFiles, Additions: pr.Additions, Deletions: pr.Deletions}
	}
	s := core.Summary{TotalFiles: len(files)}
	for _, f := range files {
		s.Additions += f.Additions
		s.Deletions += f.Deletions
	}
	return s
}

// Submit posts text as a review comment on the pull request. It is
// independent of any run's outcome.
func (p *Pipeline) Submit(ctx context.Context, req core.ReviewRequest, text string) error {
	if err := validateRequest(req); err != nil {
		return core.NewPipelineError(core.KindConfig, "validating request", err)
	}
	if p.gh == nil || p.cfg.GitHub.Token == "" {
		return core.NewPipelineError(core.KindConfig, "checking credentials", errors.New("github token is not configured"))
	}
	if err := p.gh.SubmitReviewComment(ctx, req.Owner, req.Repo, req.PRNumber, text); err != nil {
		return fmt.Errorf("submit review comment: %w", err)
	}
	p.logger.Info("review comment submitted", "repo", req.FullName(), "pr", req.PRNumber, "chars", len(text))
	return nil
}
