// Package scripted is an oracle that plays back queued decisions. Each agent and
// company has its own FIFO queue; an empty queue makes the call fail, so the
// tick falls back to the default decision.
package scripted

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"marketsim/internal/app/ports"
	"marketsim/internal/domain/economy"
)

var ErrExhausted = errors.New("script exhausted")

type Oracle struct {
	mu           sync.Mutex
	agents       map[string][]economy.AgentDecision
	companies    map[string][]economy.CeoDecision
	observations map[string][]string
	calls        int
}

var _ ports.Oracle = (*Oracle)(nil)

func New() *Oracle {
	return &Oracle{
		agents:       map[string][]economy.AgentDecision{},
		companies:    map[string][]economy.CeoDecision{},
		observations: map[string][]string{},
	}
}

func (o *Oracle) PushAgent(agentID string, ds ...economy.AgentDecision) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.agents[agentID] = append(o.agents[agentID], ds...)
}

func (o *Oracle) PushCompany(companyID string, ds ...economy.CeoDecision) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.companies[companyID] = append(o.companies[companyID], ds...)
}

func (o *Oracle) PushObservation(companyID string, lines ...string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observations[companyID] = append(o.observations[companyID], lines...)
}

// Calls reports how many decisions were requested so far.
func (o *Oracle) Calls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

// Pending reports how many queued entries have not been played yet.
func (o *Oracle) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, q := range o.agents {
		n += len(q)
	}
	for _, q := range o.companies {
		n += len(q)
	}
	for _, q := range o.observations {
		n += len(q)
	}
	return n
}

func pop[T any](q map[string][]T, key string) (T, bool) {
	var zero T
	items := q[key]
	if len(items) == 0 {
		return zero, false
	}
	q[key] = items[1:]
	return items[0], true
}

func (o *Oracle) DecideAgent(ctx context.Context, in ports.AgentContext) (economy.AgentDecision, error) {
	if err := ctx.Err(); err != nil {
		return economy.AgentDecision{}, err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	d, ok := pop(o.agents, in.Agent.ID)
	if !ok {
		return economy.AgentDecision{}, fmt.Errorf("agent %s: %w", in.Agent.ID, ErrExhausted)
	}
	return d, nil
}

func (o *Oracle) DecideCompany(ctx context.Context, in ports.CompanyContext) (economy.CeoDecision, error) {
	if err := ctx.Err(); err != nil {
		return economy.CeoDecision{}, err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	d, ok := pop(o.companies, in.Company.ID)
	if !ok {
		return economy.CeoDecision{}, fmt.Errorf("company %s: %w", in.Company.ID, ErrExhausted)
	}
	return d, nil
}

func (o *Oracle) Observe(ctx context.Context, in ports.ObservationContext) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	line, ok := pop(o.observations, in.Company.ID)
	if !ok {
		return "", fmt.Errorf("observation %s: %w", in.Company.ID, ErrExhausted)
	}
	return line, nil
}

// Script is the YAML form of a playback queue, keyed by agent or company id.
type Script struct {
	Agents       map[string][]AgentStep `yaml:"agents"`
	Companies    map[string][]CeoStep   `yaml:"companies"`
	Observations map[string][]string    `yaml:"observations"`
}

type AgentStep struct {
	Thought string `yaml:"thought"`
	Action  string `yaml:"action"`
	Target  string `yaml:"target"`
}

type CeoStep struct {
	Thought         string  `yaml:"thought"`
	Action          string  `yaml:"action"`
	ProductName     string  `yaml:"product_name"`
	ProductPrice    float64 `yaml:"product_price"`
	ProductQuality  int     `yaml:"product_quality"`
	ProductType     string  `yaml:"product_type"`
	TargetProductID string  `yaml:"target_product_id"`
	ApplicantID     string  `yaml:"applicant_id"`
}

// Load reads a YAML script and queues every step on a new Oracle.
func Load(r io.Reader) (*Oracle, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	o := New()
	for id, steps := range s.Agents {
		for _, st := range steps {
			o.PushAgent(id, economy.AgentDecision{
				ThoughtProcess: st.Thought,
				Action:         economy.ParseActionType(st.Action),
				Target:         st.Target,
			})
		}
	}
	for id, steps := range s.Companies {
		for _, st := range steps {
			o.PushCompany(id, economy.CeoDecision{
				ThoughtProcess:  st.Thought,
				Action:          economy.ParseCeoAction(st.Action),
				ProductName:     st.ProductName,
				ProductPrice:    st.ProductPrice,
				ProductQuality:  st.ProductQuality,
				ProductType:     economy.ProductType(strings.ToUpper(st.ProductType)),
				TargetProductID: st.TargetProductID,
				ApplicantID:     st.ApplicantID,
			})
		}
	}
	for id, lines := range s.Observations {
		o.PushObservation(id, lines...)
	}
	return o, nil
}
