package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"appship/internal/domain"
	"appship/internal/infra/telemetry"
)

// Remote is the set of remote operations the router dispatches to.
type Remote interface {
	UserInfo(ctx context.Context) (domain.UserInfo, error)
	ListApps(ctx context.Context) ([]domain.AppleApp, error)
	GenerateMetadata(ctx context.Context, in domain.GenerateMetadataInput) (domain.GeneratedMetadata, error)
	GenerateWhatsNew(ctx context.Context, in domain.GenerateWhatsNewInput) (string, error)
	GenerateKeywords(ctx context.Context, in domain.GenerateKeywordsInput) (string, error)
	ListVersions(ctx context.Context, appID string) ([]domain.AppVersion, error)
	SubmitMetadata(ctx context.Context, in domain.SubmitMetadataInput) (domain.SubmitMetadataResult, error)
}

// Dispatcher turns a named tool call into an Outcome.
type Dispatcher interface {
	Handle(ctx context.Context, name string, args json.RawMessage) domain.Outcome
}

const unknownToolLabel = "unknown"

type Options struct {
	Logger  *zap.Logger
	Metrics domain.Metrics
}

type Router struct {
	remote  Remote
	logger  *zap.Logger
	metrics domain.Metrics
}

func New(remote Remote, opts Options) *Router {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = domain.NoopMetrics{}
	}
	return &Router{
		remote:  remote,
		logger:  logger.Named("router"),
		metrics: metrics,
	}
}

// Handle dispatches one tool call. Every failure, including a panic in the
// remote client, is returned as a failure Outcome.
func (r *Router) Handle(ctx context.Context, name string, args json.RawMessage) (outcome domain.Outcome) {
	ctx, call := telemetry.StartCall(ctx, name)
	logger := telemetry.LoggerForCall(ctx, r.logger)

	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("tool handler panic",
				telemetry.EventField(telemetry.EventToolPanic),
				zap.Any("panic", recovered),
				zap.Stack("stack"),
			)
			outcome = failure(domain.E(domain.CodeUnexpected, name, fmt.Sprintf("internal error: %v", recovered), nil))
		}
		r.observe(logger, name, outcome, call.Elapsed())
	}()

	op, ok := domain.ParseOperation(name)
	if !ok {
		return domain.FailureOutcome(domain.CodeUnknownOperation, "Unknown tool: "+name)
	}
	text, err := r.dispatch(ctx, op, args)
	if err != nil {
		return failure(err)
	}
	return domain.SuccessOutcome(text)
}

func (r *Router) dispatch(ctx context.Context, op domain.Operation, args json.RawMessage) (string, error) {
	switch op {
	case domain.OpGetUserInfo:
		info, err := r.remote.UserInfo(ctx)
		if err != nil {
			return "", err
		}
		return renderJSON(op, info)

	case domain.OpListAppleApps:
		apps, err := r.remote.ListApps(ctx)
		if err != nil {
			return "", err
		}
		if apps == nil {
			apps = []domain.AppleApp{}
		}
		return renderJSON(op, apps)

	case domain.OpGenerateMetadata:
		var in domain.GenerateMetadataInput
		if err := decodeArgs(op, args, &in); err != nil {
			return "", err
		}
		metadata, err := r.remote.GenerateMetadata(ctx, in)
		if err != nil {
			return "", err
		}
		return renderJSON(op, metadata)

	case domain.OpGenerateWhatsNew:
		var in domain.GenerateWhatsNewInput
		if err := decodeArgs(op, args, &in); err != nil {
			return "", err
		}
		return r.remote.GenerateWhatsNew(ctx, in)

	case domain.OpGenerateKeywords:
		var in domain.GenerateKeywordsInput
		if err := decodeArgs(op, args, &in); err != nil {
			return "", err
		}
		return r.remote.GenerateKeywords(ctx, in)

	case domain.OpListAppVersions:
		var in domain.ListVersionsInput
		if err := decodeArgs(op, args, &in); err != nil {
			return "", err
		}
		versions, err := r.remote.ListVersions(ctx, in.AppID)
		if err != nil {
			return "", err
		}
		if versions == nil {
			versions = []domain.AppVersion{}
		}
		return renderJSON(op, versions)

	case domain.OpSubmitMetadata:
		var in domain.SubmitMetadataInput
		if err := decodeArgs(op, args, &in); err != nil {
			return "", err
		}
		result, err := r.remote.SubmitMetadata(ctx, in)
		if err != nil {
			return "", err
		}
		return renderJSON(op, result)

	default:
		return "", domain.E(domain.CodeUnknownOperation, op.String(), "Unknown tool: "+op.String(), domain.ErrUnknownTool)
	}
}

func (r *Router) observe(logger *zap.Logger, name string, outcome domain.Outcome, duration time.Duration) {
	label := outcome.Label()
	r.metrics.ObserveToolCall(metricToolLabel(name), label, duration)
	fields := []zap.Field{
		telemetry.OutcomeField(label),
		telemetry.DurationField(duration),
	}
	if outcome.IsError() {
		logger.Info("tool call failed", append(fields, telemetry.EventField(telemetry.EventToolFailure))...)
		return
	}
	logger.Info("tool call", append(fields, telemetry.EventField(telemetry.EventToolCall))...)
}

// metricToolLabel bounds the tool label to the catalog; callers choose the
// name, so anything else shares one series.
func metricToolLabel(name string) string {
	if _, ok := domain.ParseOperation(name); !ok {
		return unknownToolLabel
	}
	return name
}

// decodeArgs decodes the argument bag into out. A missing or null bag is an
// empty object.
func decodeArgs(op domain.Operation, args json.RawMessage, out any) error {
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return domain.E(domain.CodeApplication, op.String(), fmt.Sprintf("invalid arguments for %s: %v", op, err), err)
	}
	return nil
}

func renderJSON(op domain.Operation, value any) (string, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", domain.E(domain.CodeUnexpected, op.String(), "", fmt.Errorf("encode result: %w", err))
	}
	return string(data), nil
}

func failure(err error) domain.Outcome {
	code, ok := domain.CodeFrom(err)
	if !ok {
		code = domain.CodeUnexpected
	}
	return domain.FailureOutcome(code, "Error: "+domain.MessageFrom(err))
}
