package weaverllm

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/teilomillet/gollm"
	"github.com/teilomillet/gollm/llm"
)

// fakeTextGenerator mimics gollm's client-held option state: the model set
// via SetOption is whatever the next Generate call uses.
type fakeTextGenerator struct {
	options map[string]interface{}
	err     error
}

func newFakeTextGenerator() *fakeTextGenerator {
	return &fakeTextGenerator{options: make(map[string]interface{})}
}

func (f *fakeTextGenerator) SetOption(key string, value interface{}) {
	if f.options == nil {
		f.options = make(map[string]interface{})
	}
	f.options[key] = value
}

func (f *fakeTextGenerator) Generate(ctx context.Context, prompt *gollm.Prompt, opts ...llm.GenerateOption) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	model, _ := f.options["model"].(string)
	return "text-" + model, nil
}

func TestGollmClientCompleteUsesRequestedModel(t *testing.T) {
	c := &GollmClient{provider: "fake", llm: newFakeTextGenerator(), model: "default-model"}

	text, err := c.Complete(context.Background(), "prompt", "llama3")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if text != "text-llama3" {
		t.Errorf("requested model not applied, got %q", text)
	}

	text, err = c.Complete(context.Background(), "prompt", "")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if text != "text-default-model" {
		t.Errorf("default model not applied, got %q", text)
	}
}

func TestGollmClientCompleteConcurrentModels(t *testing.T) {
	// The model override is client state on the backend, so each Complete
	// must see its own model even when calls race. Run under -race this
	// also catches unguarded access to that state.
	c := &GollmClient{provider: "fake", llm: newFakeTextGenerator()}

	var wg sync.WaitGroup
	errCh := make(chan error, 40)
	for i := 0; i < 40; i++ {
		model := "codellama"
		if i%2 == 1 {
			model = "llama3"
		}
		wg.Add(1)
		go func(model string) {
			defer wg.Done()
			text, err := c.Complete(context.Background(), "prompt", model)
			if err != nil {
				errCh <- err
				return
			}
			if text != "text-"+model {
				errCh <- errors.New("completion for " + model + " got " + text)
			}
		}(model)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Error(err)
	}
}

func TestGollmClientCompleteTranslatesFailure(t *testing.T) {
	c := &GollmClient{provider: "fake", llm: &fakeTextGenerator{err: errors.New("429 rate limit exceeded")}}

	_, err := c.Complete(context.Background(), "prompt", "llama3")
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := err.(*RateLimitError); !ok {
		t.Errorf("expected rate limit classification, got %T", err)
	}
	if !IsProviderFailure(err) {
		t.Error("translated error should be a provider failure")
	}
}

func TestGollmClientProbeReportsFailure(t *testing.T) {
	c := &GollmClient{provider: "fake", llm: newFakeTextGenerator()}
	if err := c.Probe(context.Background()); err != nil {
		t.Errorf("probe against healthy backend failed: %v", err)
	}

	c = &GollmClient{provider: "fake", llm: &fakeTextGenerator{err: errors.New("dial tcp: connection refused")}}
	err := c.Probe(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := err.(*NetworkError); !ok {
		t.Errorf("expected network classification, got %T", err)
	}
}
