package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sethvargo/go-githubactions"

	"github.com/ardnew/civar/assign"
	"github.com/ardnew/civar/event"
	"github.com/ardnew/civar/lang"
	"github.com/ardnew/civar/log"
	"github.com/ardnew/civar/output"
	"github.com/ardnew/civar/resolve"
	"github.com/ardnew/civar/stdvars"
)

// Resolve is the default command: it runs the full resolution
// pipeline against the invocation inputs and the ambient event, then
// writes the resulting variables as step outputs.
//
// Every input binds to the INPUT_* environment variable GitHub sets
// for the corresponding action input, so the command works unchanged
// whether invoked with flags or as an action step.
type Resolve struct {
	StaticInputs   string `env:"INPUT_STATIC_INPUTS"                    help:"Static key=value declarations, one per line."            placeholder:"TEXT"`
	JinjaInputs    string `env:"INPUT_JINJA_INPUTS"                     help:"Expression declarations, one per line."                  placeholder:"TEXT"`
	Var1           string `env:"INPUT_VAR1"                             help:"Expression for the fixed output var1."                   placeholder:"EXPR"`
	Var2           string `env:"INPUT_VAR2"                             help:"Expression for the fixed output var2."                   placeholder:"EXPR"`
	Var3           string `env:"INPUT_VAR3"                             help:"Expression for the fixed output var3."                   placeholder:"EXPR"`
	StandardCIVars bool   `env:"INPUT_STANDARD_CI_VARS"  default:"true" help:"Include standard-context variables in the outputs."      negatable:""`
	LogOutputs     bool   `env:"INPUT_LOG_OUTPUTS,INPUT_NON_SENSITIVE"  help:"Render resolved variables to the log and step summary."  negatable:""`
	GithubToken    string `env:"INPUT_GITHUB_TOKEN,GITHUB_TOKEN"        help:"Token for secondary metadata lookups."`
}

// Run executes the resolution pipeline. Value-level failures (bad
// assignment lines, failing expressions, unreachable metadata) are
// logged and recovered; only a failure to project or write the
// outputs themselves returns an error.
func (r *Resolve) Run(ctx context.Context) error {
	action := githubactions.New()

	ev := ambientEvent(ctx, action)

	static, errs := assign.Parse(r.StaticInputs)
	for _, err := range errs {
		log.WarnContext(ctx, "skipping malformed static input",
			slog.Any("error", err))
	}

	exprs, errs := assign.ParseRaw(r.JinjaInputs)
	for _, err := range errs {
		log.WarnContext(ctx, "skipping malformed expression input",
			slog.Any("error", err))
	}

	var opts []stdvars.Option
	if r.GithubToken != "" {
		opts = append(opts,
			stdvars.WithFetcher(stdvars.NewGitHubFetcher(r.GithubToken)))
	}

	std := stdvars.Resolve(ctx, ev, opts...)
	for _, warn := range std.Warnings {
		log.WarnContext(ctx, "standard-context resolution degraded",
			slog.Any("error", warn))
	}

	for _, name := range std.Violations {
		log.ErrorContext(ctx, "nullability violation clamped to null",
			slog.String("variable", name))
	}

	merged := resolve.Merge(static, exprs, std,
		resolve.WithStandardOutputs(r.StandardCIVars))
	for _, warn := range merged.Warnings {
		log.WarnContext(ctx, "expression unresolved",
			slog.Any("error", warn))
	}

	proj, err := output.Project(merged, r.fixed(ctx, merged.Env()))
	if err != nil {
		return ErrProject.Wrap(err)
	}

	for _, name := range proj.Shadowed {
		log.WarnContext(ctx, "variable shadowed by reserved output name",
			slog.String("name", name))
	}

	proj.Write(action)

	log.InfoContext(ctx, "resolved variables written",
		slog.Int("count", merged.Len()),
		slog.Int("outputs", len(proj.Scalars)),
	)

	if r.LogOutputs {
		r.render(ctx, action, merged)
	}

	return nil
}

// fixed evaluates the var1..var3 expressions in order against env.
// Each result joins env under its output name so later expressions
// can reference earlier ones. A failing or empty expression yields a
// null slot.
func (r *Resolve) fixed(
	ctx context.Context,
	env lang.Env,
) [len(output.FixedNames)]any {
	var fixed [len(output.FixedNames)]any

	for i, source := range []string{r.Var1, r.Var2, r.Var3} {
		if source == "" {
			continue
		}

		value, err := lang.Evaluate(source, env)
		if err != nil {
			log.WarnContext(ctx, "expression unresolved",
				slog.String("name", output.FixedNames[i]),
				slog.Any("error", err),
			)

			continue
		}

		fixed[i] = value
		env[output.FixedNames[i]] = value
	}

	return fixed
}

// render emits the human-readable side channel: a styled table on
// stdout and a YAML fragment appended to the step summary.
func (r *Resolve) render(
	ctx context.Context,
	action *githubactions.Action,
	merged *resolve.ResultSet,
) {
	var w io.Writer = os.Stdout
	if ktx := kongContextFrom(ctx); ktx != nil {
		w = ktx.Stdout
	}

	fmt.Fprint(w, output.Table(merged))

	summary, err := output.Summary(merged)
	if err != nil {
		log.WarnContext(ctx, "cannot render step summary",
			slog.Any("error", err))

		return
	}

	action.AddStepSummary(summary)
}

// ambientEvent assembles the invocation's ambient context from the
// host environment. Nothing downstream reads process state: the
// decoded context is the only window onto the triggering event.
//
// A missing or malformed payload degrades to an empty payload with a
// warning. Several triggers legitimately carry none, and a broken
// payload must not abort resolution of the explicit inputs.
func ambientEvent(
	ctx context.Context,
	action *githubactions.Action,
) *event.Context {
	gctx, err := action.Context()
	if err != nil {
		log.WarnContext(ctx, "cannot read run metadata",
			slog.Any("error", err))

		ev, _ := event.Decode("", nil)

		return ev
	}

	var data []byte

	if gctx.EventPath != "" {
		data, err = os.ReadFile(gctx.EventPath)
		if err != nil {
			log.WarnContext(ctx, "event payload degraded",
				slog.Any("error", ErrReadEvent.Wrap(err)))
		}
	}

	ev, err := event.Decode(gctx.EventName, data)
	if err != nil {
		log.WarnContext(ctx, "event payload degraded",
			slog.Any("error", ErrDecodeEvent.Wrap(err)))

		ev, _ = event.Decode(gctx.EventName, nil)
	}

	ev.Ref = gctx.Ref
	ev.SHA = gctx.SHA

	if gctx.Repository != "" {
		ev.Repository = gctx.Repository
	}

	if gctx.ServerURL != "" {
		ev.ServerURL = gctx.ServerURL
	}

	ev.RunID = gctx.RunID
	ev.RunNumber = gctx.RunNumber
	ev.Workflow = gctx.Workflow
	ev.Job = gctx.Job
	ev.Actor = gctx.Actor

	return ev
}
