package ai

import (
	"context"
	"encoding/json"
	"sync"
)

type fakeClassifierModel struct {
	mu          sync.Mutex
	response    string
	err         error
	calls       int
	lastInput   string
	lastInstr   string
	waitForDone bool
}

func (f *fakeClassifierModel) ClassifyJSON(ctx context.Context, instruction, input string) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls++
	f.lastInput = input
	f.lastInstr = instruction
	f.mu.Unlock()

	if f.waitForDone {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.response), nil
}

type fakeGenerator struct {
	mu         sync.Mutex
	text       string
	err        error
	lastPrompt string
	calls      int
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}
