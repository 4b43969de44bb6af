package domain

// Operation is the closed set of tools the gateway exposes.
type Operation int

const (
	OpUnknown Operation = iota
	OpGetUserInfo
	OpListAppleApps
	OpGenerateMetadata
	OpGenerateWhatsNew
	OpGenerateKeywords
	OpListAppVersions
	OpSubmitMetadata
)

const (
	ToolGetUserInfo      = "get_user_info"
	ToolListAppleApps    = "list_apple_apps"
	ToolGenerateMetadata = "generate_metadata"
	ToolGenerateWhatsNew = "generate_whats_new"
	ToolGenerateKeywords = "generate_keywords"
	ToolListAppVersions  = "list_app_versions"
	ToolSubmitMetadata   = "submit_metadata"
)

var operationNames = map[Operation]string{
	OpGetUserInfo:      ToolGetUserInfo,
	OpListAppleApps:    ToolListAppleApps,
	OpGenerateMetadata: ToolGenerateMetadata,
	OpGenerateWhatsNew: ToolGenerateWhatsNew,
	OpGenerateKeywords: ToolGenerateKeywords,
	OpListAppVersions:  ToolListAppVersions,
	OpSubmitMetadata:   ToolSubmitMetadata,
}

var operationsByName = func() map[string]Operation {
	out := make(map[string]Operation, len(operationNames))
	for op, name := range operationNames {
		out[name] = op
	}
	return out
}()

// Operations lists every operation in catalog order.
func Operations() []Operation {
	return []Operation{
		OpGetUserInfo,
		OpListAppleApps,
		OpGenerateMetadata,
		OpGenerateWhatsNew,
		OpGenerateKeywords,
		OpListAppVersions,
		OpSubmitMetadata,
	}
}

// ParseOperation maps a tool name to its operation.
func ParseOperation(name string) (Operation, bool) {
	op, ok := operationsByName[name]
	return op, ok
}

func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return "unknown"
}
