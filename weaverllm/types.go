package weaverllm

// Role identifies which logical generation task a completion serves. The
// Router maps each role to a per-provider model identifier.
type Role string

const (
	// RoleCode requests an executable game program.
	RoleCode Role = "code"
	// RoleRules requests structured rule text for a game that is not yet in
	// the metadata store.
	RoleRules Role = "rules"
)

// ProviderID tags which logical provider served a completion.
type ProviderID string

const (
	ProviderPrimary  ProviderID = "primary"
	ProviderFallback ProviderID = "fallback"
)

// RoleModels holds the model identifier used for each role on one provider.
type RoleModels struct {
	Code  string `json:"code"`
	Rules string `json:"rules"`
}

// Model returns the identifier for the given role, empty when unconfigured.
func (m RoleModels) Model(role Role) string {
	switch role {
	case RoleCode:
		return m.Code
	case RoleRules:
		return m.Rules
	}
	return ""
}

// RoutedCompletion is the result of a routed generation call: the completion
// text plus which provider and model produced it.
type RoutedCompletion struct {
	Text     string     `json:"text"`
	Provider ProviderID `json:"provider"`
	Model    string     `json:"model"`
}
