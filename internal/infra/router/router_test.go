package router

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"appship/internal/domain"
	"appship/internal/infra/telemetry"
)

type fakeRemote struct {
	err   error
	panic any

	userInfo  domain.UserInfo
	apps      []domain.AppleApp
	metadata  domain.GeneratedMetadata
	whatsNew  string
	keywords  string
	versions  []domain.AppVersion
	submitted domain.SubmitMetadataResult

	calls       []string
	lastArgs    any
	lastAppID   string
	lastRequest string
}

func (f *fakeRemote) record(ctx context.Context, name string, args any) error {
	f.calls = append(f.calls, name)
	f.lastArgs = args
	f.lastRequest, _ = telemetry.RequestIDFromContext(ctx)
	if f.panic != nil {
		panic(f.panic)
	}
	return f.err
}

func (f *fakeRemote) UserInfo(ctx context.Context) (domain.UserInfo, error) {
	return f.userInfo, f.record(ctx, "UserInfo", nil)
}

func (f *fakeRemote) ListApps(ctx context.Context) ([]domain.AppleApp, error) {
	return f.apps, f.record(ctx, "ListApps", nil)
}

func (f *fakeRemote) GenerateMetadata(ctx context.Context, in domain.GenerateMetadataInput) (domain.GeneratedMetadata, error) {
	return f.metadata, f.record(ctx, "GenerateMetadata", in)
}

func (f *fakeRemote) GenerateWhatsNew(ctx context.Context, in domain.GenerateWhatsNewInput) (string, error) {
	return f.whatsNew, f.record(ctx, "GenerateWhatsNew", in)
}

func (f *fakeRemote) GenerateKeywords(ctx context.Context, in domain.GenerateKeywordsInput) (string, error) {
	return f.keywords, f.record(ctx, "GenerateKeywords", in)
}

func (f *fakeRemote) ListVersions(ctx context.Context, appID string) ([]domain.AppVersion, error) {
	f.lastAppID = appID
	return f.versions, f.record(ctx, "ListVersions", appID)
}

func (f *fakeRemote) SubmitMetadata(ctx context.Context, in domain.SubmitMetadataInput) (domain.SubmitMetadataResult, error) {
	return f.submitted, f.record(ctx, "SubmitMetadata", in)
}

type toolObservation struct {
	Tool    string
	Outcome string
}

type fakeMetrics struct {
	tools []toolObservation
}

func (m *fakeMetrics) ObserveToolCall(tool string, outcome string, _ time.Duration) {
	m.tools = append(m.tools, toolObservation{Tool: tool, Outcome: outcome})
}

func (m *fakeMetrics) ObserveRemoteRequest(string, string, time.Duration) {}

func TestRouter_UnknownTool(t *testing.T) {
	remote := &fakeRemote{}
	metrics := &fakeMetrics{}
	r := New(remote, Options{Metrics: metrics})

	out := r.Handle(context.Background(), "delete_everything", json.RawMessage(`{}`))
	require.True(t, out.IsError())
	require.Equal(t, "Unknown tool: delete_everything", out.Text)
	require.Equal(t, domain.CodeUnknownOperation, out.Code)
	require.Empty(t, remote.calls)
	require.Equal(t, []toolObservation{{Tool: "unknown", Outcome: "UNKNOWN_OPERATION"}}, metrics.tools)
}

func TestRouter_UnknownToolsShareMetricLabel(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	metrics := &fakeMetrics{}
	r := New(&fakeRemote{}, Options{Metrics: metrics, Logger: zap.New(core)})

	r.Handle(context.Background(), "a", nil)
	r.Handle(context.Background(), "b", nil)
	r.Handle(context.Background(), "get_user_info", nil)

	require.Equal(t, []toolObservation{
		{Tool: "unknown", Outcome: "UNKNOWN_OPERATION"},
		{Tool: "unknown", Outcome: "UNKNOWN_OPERATION"},
		{Tool: "get_user_info", Outcome: "success"},
	}, metrics.tools)

	failed := logs.FilterMessage("tool call failed").All()
	require.Len(t, failed, 2)
	require.Equal(t, "a", failed[0].ContextMap()[telemetry.FieldTool])
	require.Equal(t, "b", failed[1].ContextMap()[telemetry.FieldTool])
}

func TestRouter_GenerateMetadata(t *testing.T) {
	remote := &fakeRemote{metadata: domain.GeneratedMetadata{
		Title:       "Foo",
		Subtitle:    "Photo editing made easy",
		Description: "Foo edits photos.",
		Keywords:    "photo,edit,filter",
	}}
	r := New(remote, Options{})

	out := r.Handle(context.Background(), "generate_metadata", json.RawMessage(`{"appName":"Foo","appDescription":"edits photos"}`))
	require.False(t, out.IsError())
	require.JSONEq(t, `{
		"title": "Foo",
		"subtitle": "Photo editing made easy",
		"description": "Foo edits photos.",
		"keywords": "photo,edit,filter"
	}`, out.Text)
	require.Contains(t, out.Text, "\n  \"title\": \"Foo\"")
	require.Equal(t, domain.GenerateMetadataInput{AppName: "Foo", AppDescription: "edits photos"}, remote.lastArgs)
}

func TestRouter_TextResults(t *testing.T) {
	remote := &fakeRemote{whatsNew: "- Faster exports\n- Bug fixes", keywords: "photo,edit"}
	r := New(remote, Options{})

	out := r.Handle(context.Background(), "generate_whats_new", json.RawMessage(`{"appName":"Foo","changes":"faster exports","locale":"tr"}`))
	require.Equal(t, domain.SuccessOutcome("- Faster exports\n- Bug fixes"), out)
	require.Equal(t, domain.GenerateWhatsNewInput{AppName: "Foo", Changes: "faster exports", Locale: "tr"}, remote.lastArgs)

	out = r.Handle(context.Background(), "generate_keywords", json.RawMessage(`{"appName":"Foo","appDescription":"x","currentKeywords":"photo"}`))
	require.Equal(t, domain.SuccessOutcome("photo,edit"), out)
	require.Equal(t, domain.GenerateKeywordsInput{AppName: "Foo", AppDescription: "x", CurrentKeywords: "photo"}, remote.lastArgs)
}

func TestRouter_StructuredResults(t *testing.T) {
	remote := &fakeRemote{
		userInfo:  domain.UserInfo{Email: "dev@example.com", Credits: 4, Projects: []domain.Project{{ID: "p1", Name: "Foo"}}},
		versions:  []domain.AppVersion{{ID: "v1", VersionString: "1.0", Platform: "IOS", AppStoreState: "PREPARE_FOR_SUBMISSION", Editable: true}},
		submitted: domain.SubmitMetadataResult{Success: true, VersionID: "v1"},
	}
	r := New(remote, Options{})

	out := r.Handle(context.Background(), "get_user_info", nil)
	require.False(t, out.IsError())
	require.JSONEq(t, `{"email":"dev@example.com","credits":4,"hasAppleCredentials":false,"projects":[{"id":"p1","name":"Foo"}]}`, out.Text)

	out = r.Handle(context.Background(), "list_apple_apps", json.RawMessage(`null`))
	require.Equal(t, domain.SuccessOutcome("[]"), out)

	out = r.Handle(context.Background(), "list_app_versions", json.RawMessage(`{"appId":"123"}`))
	require.False(t, out.IsError())
	require.Equal(t, "123", remote.lastAppID)
	require.JSONEq(t, `[{"id":"v1","versionString":"1.0","platform":"IOS","appStoreState":"PREPARE_FOR_SUBMISSION","editable":true}]`, out.Text)

	out = r.Handle(context.Background(), "submit_metadata", json.RawMessage(`{"appId":"123","locale":"en-US","keywords":"a,b","platform":"MAC_OS"}`))
	require.False(t, out.IsError())
	require.JSONEq(t, `{"success":true,"versionId":"v1"}`, out.Text)
	want := domain.SubmitMetadataInput{AppID: "123", Locale: "en-US", Keywords: "a,b", Platform: "MAC_OS"}
	if diff := cmp.Diff(want, remote.lastArgs); diff != "" {
		t.Fatalf("submit input mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, []string{"UserInfo", "ListApps", "ListVersions", "SubmitMetadata"}, remote.calls)
}

func TestRouter_RemoteErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode domain.ErrorCode
		wantText string
	}{
		{
			name:     "application",
			err:      &domain.Error{Code: domain.CodeApplication, Op: "generate_metadata", Message: "bad input", Status: 400},
			wantCode: domain.CodeApplication,
			wantText: "Error: bad input",
		},
		{
			name:     "unauthenticated",
			err:      domain.E(domain.CodeUnauthenticated, "generate_metadata", "Not authenticated. Run 'appship login' first.", domain.ErrNotAuthenticated),
			wantCode: domain.CodeUnauthenticated,
			wantText: "Error: Not authenticated. Run 'appship login' first.",
		},
		{
			name:     "protocol",
			err:      domain.E(domain.CodeProtocol, "generate_metadata", "", errors.New("response missing required fields: title")),
			wantCode: domain.CodeProtocol,
			wantText: "Error: response missing required fields: title",
		},
		{
			name:     "unavailable",
			err:      domain.E(domain.CodeUnavailable, "generate_metadata", "", errors.New("connection refused")),
			wantCode: domain.CodeUnavailable,
			wantText: "Error: connection refused",
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			wantCode: domain.CodeUnexpected,
			wantText: "Error: boom",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := New(&fakeRemote{err: tc.err}, Options{})
			out := r.Handle(context.Background(), "generate_metadata", json.RawMessage(`{"appName":"Foo","appDescription":"x"}`))
			require.Equal(t, domain.Outcome{Text: tc.wantText, Code: tc.wantCode}, out)
		})
	}
}

func TestRouter_InvalidArguments(t *testing.T) {
	remote := &fakeRemote{}
	r := New(remote, Options{})

	out := r.Handle(context.Background(), "generate_metadata", json.RawMessage(`{"appName": 42}`))
	require.Equal(t, domain.CodeApplication, out.Code)
	require.Contains(t, out.Text, "Error: invalid arguments for generate_metadata:")
	require.Empty(t, remote.calls)

	out = r.Handle(context.Background(), "list_app_versions", json.RawMessage(`"123"`))
	require.Equal(t, domain.CodeApplication, out.Code)
	require.Empty(t, remote.calls)
}

func TestRouter_MissingArgumentsReachRemote(t *testing.T) {
	remote := &fakeRemote{keywords: "k"}
	r := New(remote, Options{})

	out := r.Handle(context.Background(), "generate_keywords", json.RawMessage(` `))
	require.False(t, out.IsError())
	require.Equal(t, domain.GenerateKeywordsInput{}, remote.lastArgs)
}

func TestRouter_RecoversPanic(t *testing.T) {
	metrics := &fakeMetrics{}
	r := New(&fakeRemote{panic: "nil map write"}, Options{Metrics: metrics})

	out := r.Handle(context.Background(), "get_user_info", nil)
	require.Equal(t, domain.CodeUnexpected, out.Code)
	require.Equal(t, "Error: internal error: nil map write", out.Text)
	require.Equal(t, []toolObservation{{Tool: "get_user_info", Outcome: "UNEXPECTED"}}, metrics.tools)
}

func TestRouter_RequestID(t *testing.T) {
	remote := &fakeRemote{}
	r := New(remote, Options{})

	r.Handle(context.Background(), "get_user_info", nil)
	require.NotEmpty(t, remote.lastRequest)

	ctx := telemetry.WithCall(context.Background(), telemetry.Call{RequestID: "req-42"})
	r.Handle(ctx, "get_user_info", nil)
	require.Equal(t, "req-42", remote.lastRequest)
}

func TestRouter_LogsCalls(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := New(&fakeRemote{err: errors.New("boom")}, Options{Logger: zap.New(core)})

	r.Handle(context.Background(), "list_apple_apps", nil)

	entries := logs.FilterMessage("tool call failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "list_apple_apps", fields[telemetry.FieldTool])
	require.Equal(t, "UNEXPECTED", fields[telemetry.FieldOutcome])
	require.Equal(t, telemetry.EventToolFailure, fields[telemetry.FieldEvent])
	require.NotEmpty(t, fields[telemetry.FieldRequestID])
}
