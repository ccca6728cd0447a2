package pagefetch

import "sync"

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
}

// AgentRotator hands out user agent strings in round-robin order.
type AgentRotator struct {
	mu     sync.Mutex
	agents []string
	next   int
}

// NewAgentRotator uses the built-in browser agents when none are given.
func NewAgentRotator(agents ...string) *AgentRotator {
	if len(agents) == 0 {
		agents = defaultUserAgents
	}
	return &AgentRotator{agents: append([]string(nil), agents...)}
}

// Next returns the next user agent.
func (r *AgentRotator) Next() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ua := r.agents[r.next]
	r.next = (r.next + 1) % len(r.agents)
	return ua
}
