package testutil

import "sync"

// DefaultRunToken is used by FixedRunGenerator when no token is configured.
const DefaultRunToken = "test-run-default"

// FixedRunGenerator returns the same run token on every call, so a
// scenario can pin the run id that appears in its golden snapshot.
// It satisfies engine.RunTokenGenerator and is safe for concurrent use.
type FixedRunGenerator struct {
	token string
}

// NewFixedRunGenerator creates a generator for token. An empty token
// selects DefaultRunToken.
//
// Scenarios set the token in YAML:
//
//	run_token: "test-run-00000000-0000-0000-0000-000000000001"
func NewFixedRunGenerator(token string) *FixedRunGenerator {
	if token == "" {
		token = DefaultRunToken
	}
	return &FixedRunGenerator{token: token}
}

// Generate returns the fixed token.
func (g *FixedRunGenerator) Generate() string {
	return g.token
}

// SequenceRunGenerator returns predetermined run tokens in order, for tests
// that start several runs and need each one to have a distinct id.
//
// Thread-safety: SequenceRunGenerator is safe for concurrent use.
type SequenceRunGenerator struct {
	mu     sync.Mutex
	tokens []string
	next   int
}

// NewSequenceRunGenerator creates a generator that returns tokens in order.
//
//	gen := NewSequenceRunGenerator("run-1", "run-2")
//	gen.Generate() // "run-1"
//	gen.Generate() // "run-2"
//	gen.Generate() // panic: all tokens exhausted
func NewSequenceRunGenerator(tokens ...string) *SequenceRunGenerator {
	return &SequenceRunGenerator{tokens: tokens}
}

// Generate returns the next token. It panics once the tokens are used up:
// the test started more runs than it planned for.
func (g *SequenceRunGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.next >= len(g.tokens) {
		panic("SequenceRunGenerator: all tokens exhausted")
	}
	token := g.tokens[g.next]
	g.next++
	return token
}
