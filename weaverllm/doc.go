// Package weaverllm provides the LLM provider layer for gameweaver: a
// completion-oriented client interface backed by gollm
// (github.com/teilomillet/gollm), a typed error taxonomy, and a Router that
// selects between a primary and a fallback provider per call.
//
// # Architecture
//
//   - ProviderClient: one outbound completion call per invocation, no
//     internal retries. Retry policy belongs to the orchestration loop.
//   - GollmClient: the production ProviderClient, wrapping gollm.LLM.
//   - Router: probes the primary before each call and falls back to the
//     secondary on any provider failure, tagging which provider served the
//     completion.
//
// # Quick Start
//
//	primary, _ := weaverllm.NewGollmClient("ollama", "",
//	    weaverllm.WithModel("codellama"))
//	fallback, _ := weaverllm.NewGollmClient("openai", os.Getenv("OPENAI_API_KEY"),
//	    weaverllm.WithModel("gpt-4o-mini"))
//
//	router := weaverllm.NewRouter(primary, fallback, weaverllm.RouterConfig{
//	    PrimaryModels:  weaverllm.RoleModels{Code: "codellama", Rules: "llama3"},
//	    FallbackModels: weaverllm.RoleModels{Code: "gpt-4o-mini", Rules: "gpt-4o-mini"},
//	}, logger)
//
//	out, err := router.Generate(ctx, prompt, weaverllm.RoleCode)
//	fmt.Println(out.Provider, out.Text)
//
// # Error Taxonomy
//
// Every failure from a provider surfaces as a *ProviderError or one of its
// concrete subtypes (AuthenticationError, RateLimitError, ServerError,
// NetworkError, RequestTimeoutError, EmptyCompletionError). The Router treats
// all of them the same way: fall back within the current call.
package weaverllm
