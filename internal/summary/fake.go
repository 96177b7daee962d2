package summary

import "context"

// FakeGenerator returns a canned summary or error and counts calls.
// Test helper.
type FakeGenerator struct {
	Response *Summary
	Err      error
	Calls    int
}

func (f *FakeGenerator) GenerateSummary(ctx context.Context, prompt string) (*Summary, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Response, nil
}

// NewFake builds a generator that always returns the given summary.
func NewFake(s Summary) *FakeGenerator {
	return &FakeGenerator{Response: &s}
}
