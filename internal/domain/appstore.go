package domain

import "encoding/json"

// Types decoded from the remote service keep the document they were decoded
// from in Raw and marshal back to it unchanged, so fields this client does
// not model still reach the caller. Values built in code have no Raw and
// marshal from their fields.

// UserInfo describes the authenticated account.
type UserInfo struct {
	Email               string    `json:"email"`
	Credits             int       `json:"credits"`
	HasAppleCredentials bool      `json:"hasAppleCredentials"`
	Projects            []Project `json:"projects"`

	Raw json.RawMessage `json:"-"`
}

func (u *UserInfo) UnmarshalJSON(data []byte) error {
	type plain UserInfo
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*u = UserInfo(decoded)
	u.Raw = cloneRaw(data)
	return nil
}

func (u UserInfo) MarshalJSON() ([]byte, error) {
	if len(u.Raw) > 0 {
		return u.Raw, nil
	}
	type plain UserInfo
	if u.Projects == nil {
		u.Projects = []Project{}
	}
	return json.Marshal(plain(u))
}

type Project struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	BundleID string `json:"bundleId,omitempty"`
}

// AppleApp is an app visible through the connected App Store Connect account.
type AppleApp struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	BundleID string `json:"bundleId"`
	SKU      string `json:"sku,omitempty"`

	Raw json.RawMessage `json:"-"`
}

func (a *AppleApp) UnmarshalJSON(data []byte) error {
	type plain AppleApp
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*a = AppleApp(decoded)
	a.Raw = cloneRaw(data)
	return nil
}

func (a AppleApp) MarshalJSON() ([]byte, error) {
	if len(a.Raw) > 0 {
		return a.Raw, nil
	}
	type plain AppleApp
	return json.Marshal(plain(a))
}

type GeneratedMetadata struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	WhatsNew    string `json:"whatsNew,omitempty"`

	Raw json.RawMessage `json:"-"`
}

func (m *GeneratedMetadata) UnmarshalJSON(data []byte) error {
	type plain GeneratedMetadata
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*m = GeneratedMetadata(decoded)
	m.Raw = cloneRaw(data)
	return nil
}

func (m GeneratedMetadata) MarshalJSON() ([]byte, error) {
	if len(m.Raw) > 0 {
		return m.Raw, nil
	}
	type plain GeneratedMetadata
	return json.Marshal(plain(m))
}

// AppVersion is an App Store version of an app, live or editable.
type AppVersion struct {
	ID            string `json:"id"`
	VersionString string `json:"versionString"`
	Platform      string `json:"platform"`
	AppStoreState string `json:"appStoreState"`
	Editable      bool   `json:"editable,omitempty"`

	Raw json.RawMessage `json:"-"`
}

func (v *AppVersion) UnmarshalJSON(data []byte) error {
	type plain AppVersion
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*v = AppVersion(decoded)
	v.Raw = cloneRaw(data)
	return nil
}

func (v AppVersion) MarshalJSON() ([]byte, error) {
	if len(v.Raw) > 0 {
		return v.Raw, nil
	}
	type plain AppVersion
	return json.Marshal(plain(v))
}

type SubmitMetadataResult struct {
	Success       bool     `json:"success"`
	VersionID     string   `json:"versionId,omitempty"`
	UpdatedFields []string `json:"updatedFields,omitempty"`
	Message       string   `json:"message,omitempty"`

	Raw json.RawMessage `json:"-"`
}

func (r *SubmitMetadataResult) UnmarshalJSON(data []byte) error {
	type plain SubmitMetadataResult
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*r = SubmitMetadataResult(decoded)
	r.Raw = cloneRaw(data)
	return nil
}

func (r SubmitMetadataResult) MarshalJSON() ([]byte, error) {
	if len(r.Raw) > 0 {
		return r.Raw, nil
	}
	type plain SubmitMetadataResult
	return json.Marshal(plain(r))
}

type GenerateMetadataInput struct {
	AppName        string `json:"appName"`
	AppDescription string `json:"appDescription"`
	Locale         string `json:"locale,omitempty"`
}

type GenerateWhatsNewInput struct {
	AppName string `json:"appName"`
	Changes string `json:"changes"`
	Locale  string `json:"locale,omitempty"`
}

type GenerateKeywordsInput struct {
	AppName         string `json:"appName"`
	AppDescription  string `json:"appDescription"`
	CurrentKeywords string `json:"currentKeywords,omitempty"`
	Locale          string `json:"locale,omitempty"`
}

type ListVersionsInput struct {
	AppID string `json:"appId"`
}

// SubmitMetadataInput carries locale-specific metadata for one app.
// AppID and Locale address the target; the remaining fields form the request body.
type SubmitMetadataInput struct {
	AppID           string `json:"appId"`
	Locale          string `json:"locale"`
	Description     string `json:"description,omitempty"`
	Keywords        string `json:"keywords,omitempty"`
	PromotionalText string `json:"promotionalText,omitempty"`
	WhatsNew        string `json:"whatsNew,omitempty"`
	VersionString   string `json:"versionString,omitempty"`
	Platform        string `json:"platform,omitempty"`
}

// Platforms accepted by submit_metadata.
var Platforms = []string{"IOS", "MAC_OS", "TV_OS", "VISION_OS"}

func cloneRaw(data []byte) json.RawMessage {
	return append(json.RawMessage(nil), data...)
}
