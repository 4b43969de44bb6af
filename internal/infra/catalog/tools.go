package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"appship/internal/domain"
)

const (
	localeDescription  = "Target locale (e.g., 'en-US', 'tr'). Defaults to 'en-US'"
	appNameDescription = "Name of the app"
	appDescDescription = "Brief description of what the app does"
)

// Tools returns the advertised tool descriptors in catalog order.
// Each call builds fresh values, so callers may modify the result.
func Tools() []*mcp.Tool {
	return []*mcp.Tool{
		{
			Name:        domain.ToolGetUserInfo,
			Description: "Get current user info including credits, Apple connection status, and projects",
			InputSchema: object(nil),
		},
		{
			Name:        domain.ToolListAppleApps,
			Description: "List all apps from connected App Store Connect account",
			InputSchema: object(nil),
		},
		{
			Name:        domain.ToolGenerateMetadata,
			Description: "Generate complete App Store metadata (title, subtitle, description, keywords) using AI. Costs 1 credit.",
			InputSchema: object([]property{
				{name: "appName", description: appNameDescription, required: true},
				{name: "appDescription", description: appDescDescription, required: true},
				{name: "locale", description: localeDescription},
			}),
		},
		{
			Name:        domain.ToolGenerateWhatsNew,
			Description: "Generate release notes / What's New text using AI. Costs 1 credit.",
			InputSchema: object([]property{
				{name: "appName", description: appNameDescription, required: true},
				{name: "changes", description: "List of changes, bug fixes, or new features in this release", required: true},
				{name: "locale", description: localeDescription},
			}),
		},
		{
			Name:        domain.ToolGenerateKeywords,
			Description: "Generate optimized App Store keywords for ASO using AI. Costs 1 credit.",
			InputSchema: object([]property{
				{name: "appName", description: appNameDescription, required: true},
				{name: "appDescription", description: appDescDescription, required: true},
				{name: "currentKeywords", description: "Current keywords (optional, for optimization)"},
				{name: "locale", description: localeDescription},
			}),
		},
		{
			Name:        domain.ToolListAppVersions,
			Description: "List App Store versions of an app, including which ones are editable",
			InputSchema: object([]property{
				{name: "appId", description: "App Store Connect app ID (from list_apple_apps)", required: true},
			}),
		},
		{
			Name:        domain.ToolSubmitMetadata,
			Description: "Submit localized metadata to App Store Connect for an app version",
			InputSchema: object([]property{
				{name: "appId", description: "App Store Connect app ID (from list_apple_apps)", required: true},
				{name: "locale", description: "Locale to update (e.g., 'en-US')", required: true},
				{name: "description", description: "App description"},
				{name: "keywords", description: "Comma-separated keywords (max 100 characters)"},
				{name: "promotionalText", description: "Promotional text"},
				{name: "whatsNew", description: "What's New release notes"},
				{name: "versionString", description: "Version number to create when no editable version exists (e.g., '1.2.0')"},
				{name: "platform", description: "Target platform. Defaults to IOS", enum: domain.Platforms},
			}),
		},
	}
}

// Names lists the tool names in catalog order.
func Names() []string {
	tools := Tools()
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	return names
}

// Lookup returns the descriptor for name.
func Lookup(name string) (*mcp.Tool, bool) {
	for _, tool := range Tools() {
		if tool.Name == name {
			return tool, true
		}
	}
	return nil, false
}

// Validate checks that every tool has a non-empty unique name, a matching
// operation and an object input schema.
func Validate(tools []*mcp.Tool) error {
	var errs []error
	seen := make(map[string]struct{}, len(tools))
	for i, tool := range tools {
		if tool == nil {
			errs = append(errs, fmt.Errorf("tool %d: nil descriptor", i))
			continue
		}
		name := strings.TrimSpace(tool.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("tool %d: name is required", i))
			continue
		}
		if _, ok := seen[name]; ok {
			errs = append(errs, fmt.Errorf("tool %q: duplicate name", name))
			continue
		}
		seen[name] = struct{}{}
		if _, ok := domain.ParseOperation(name); !ok {
			errs = append(errs, fmt.Errorf("tool %q: no matching operation", name))
		}
		schema, ok := tool.InputSchema.(*jsonschema.Schema)
		if !ok || schema == nil || schema.Type != "object" {
			errs = append(errs, fmt.Errorf("tool %q: input schema must be an object", name))
		}
	}
	return errors.Join(errs...)
}

type property struct {
	name        string
	description string
	required    bool
	enum        []string
}

func object(props []property) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(props)),
		Required:   []string{},
	}
	for _, prop := range props {
		field := &jsonschema.Schema{Type: "string", Description: prop.description}
		for _, value := range prop.enum {
			field.Enum = append(field.Enum, value)
		}
		schema.Properties[prop.name] = field
		if prop.required {
			schema.Required = append(schema.Required, prop.name)
		}
	}
	return schema
}
