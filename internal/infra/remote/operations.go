package remote

import (
	"context"
	"net/http"
	"net/url"

	"appship/internal/domain"
)

const (
	endpointUserInfo         = "/user/me"
	endpointAppleApps        = "/projects/apple-apps"
	endpointGenerateMetadata = "/generate/metadata"
	endpointGenerateWhatsNew = "/generate/whats-new"
	endpointGenerateKeywords = "/generate/keywords"
)

func (c *Client) UserInfo(ctx context.Context) (domain.UserInfo, error) {
	var out domain.UserInfo
	err := c.call(ctx, request{
		op:       "user_info",
		method:   http.MethodGet,
		endpoint: endpointUserInfo,
		required: []string{"email", "credits"},
	}, &out)
	if err != nil {
		return domain.UserInfo{}, err
	}
	return out, nil
}

func (c *Client) ListApps(ctx context.Context) ([]domain.AppleApp, error) {
	var out struct {
		Apps []domain.AppleApp `json:"apps"`
	}
	err := c.call(ctx, request{
		op:       "list_apps",
		method:   http.MethodGet,
		endpoint: endpointAppleApps,
		required: []string{"apps"},
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Apps, nil
}

func (c *Client) GenerateMetadata(ctx context.Context, in domain.GenerateMetadataInput) (domain.GeneratedMetadata, error) {
	var out domain.GeneratedMetadata
	err := c.call(ctx, request{
		op:       "generate_metadata",
		method:   http.MethodPost,
		endpoint: endpointGenerateMetadata,
		body:     in,
		required: []string{"title", "subtitle", "description", "keywords"},
	}, &out)
	if err != nil {
		return domain.GeneratedMetadata{}, err
	}
	return out, nil
}

func (c *Client) GenerateWhatsNew(ctx context.Context, in domain.GenerateWhatsNewInput) (string, error) {
	var out struct {
		WhatsNew string `json:"whatsNew"`
	}
	err := c.call(ctx, request{
		op:       "generate_whats_new",
		method:   http.MethodPost,
		endpoint: endpointGenerateWhatsNew,
		body:     in,
		required: []string{"whatsNew"},
	}, &out)
	if err != nil {
		return "", err
	}
	return out.WhatsNew, nil
}

func (c *Client) GenerateKeywords(ctx context.Context, in domain.GenerateKeywordsInput) (string, error) {
	var out struct {
		Keywords string `json:"keywords"`
	}
	err := c.call(ctx, request{
		op:       "generate_keywords",
		method:   http.MethodPost,
		endpoint: endpointGenerateKeywords,
		body:     in,
		required: []string{"keywords"},
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Keywords, nil
}

func (c *Client) ListVersions(ctx context.Context, appID string) ([]domain.AppVersion, error) {
	var out struct {
		Versions []domain.AppVersion `json:"versions"`
	}
	err := c.call(ctx, request{
		op:       "list_versions",
		method:   http.MethodGet,
		endpoint: endpointAppleApps + "/" + url.PathEscape(appID) + "/versions",
		required: []string{"versions"},
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Versions, nil
}

type submitMetadataBody struct {
	Description     string `json:"description,omitempty"`
	Keywords        string `json:"keywords,omitempty"`
	PromotionalText string `json:"promotionalText,omitempty"`
	WhatsNew        string `json:"whatsNew,omitempty"`
	VersionString   string `json:"versionString,omitempty"`
	Platform        string `json:"platform,omitempty"`
}

func (c *Client) SubmitMetadata(ctx context.Context, in domain.SubmitMetadataInput) (domain.SubmitMetadataResult, error) {
	var out domain.SubmitMetadataResult
	err := c.call(ctx, request{
		op:       "submit_metadata",
		method:   http.MethodPost,
		endpoint: endpointAppleApps + "/" + url.PathEscape(in.AppID) + "/localizations/" + url.PathEscape(in.Locale),
		body: submitMetadataBody{
			Description:     in.Description,
			Keywords:        in.Keywords,
			PromotionalText: in.PromotionalText,
			WhatsNew:        in.WhatsNew,
			VersionString:   in.VersionString,
			Platform:        in.Platform,
		},
		required: []string{"success"},
	}, &out)
	if err != nil {
		return domain.SubmitMetadataResult{}, err
	}
	return out, nil
}
