package groq

import (
	"context"
	"math"
	"strings"

	"marketsim/internal/app/ports"
	"marketsim/internal/domain/economy"
)

type Models struct {
	Agent string
	CEO   string
}

// Oracle implements ports.Oracle on top of a chat-completions Client.
type Oracle struct {
	client *Client
	models Models
}

var _ ports.Oracle = (*Oracle)(nil)

func New(client *Client, models Models) *Oracle {
	if models.Agent == "" {
		models.Agent = DefaultAgentModel
	}
	if models.CEO == "" {
		models.CEO = DefaultCEOModel
	}
	return &Oracle{client: client, models: models}
}

func (o *Oracle) DecideAgent(ctx context.Context, in ports.AgentContext) (economy.AgentDecision, error) {
	raw, err := o.client.Complete(ctx, o.models.Agent, agentPrompt(in))
	if err != nil {
		return economy.AgentDecision{}, err
	}
	var r agentReply
	if err := decodeReply(agentSchema, raw, &r); err != nil {
		return economy.AgentDecision{}, err
	}
	return economy.AgentDecision{
		ThoughtProcess: strings.TrimSpace(r.ThoughtProcess),
		Action:         economy.ParseActionType(r.Action),
		Target:         strings.TrimSpace(r.Target),
	}, nil
}

func (o *Oracle) DecideCompany(ctx context.Context, in ports.CompanyContext) (economy.CeoDecision, error) {
	raw, err := o.client.Complete(ctx, o.models.CEO, companyPrompt(in))
	if err != nil {
		return economy.CeoDecision{}, err
	}
	var r ceoReply
	if err := decodeReply(ceoSchema, raw, &r); err != nil {
		return economy.CeoDecision{}, err
	}
	return economy.CeoDecision{
		ThoughtProcess:  strings.TrimSpace(r.ThoughtProcess),
		Action:          economy.ParseCeoAction(r.Action),
		ProductName:     strings.TrimSpace(r.ProductName),
		ProductPrice:    r.ProductPrice,
		ProductQuality:  int(math.Round(r.ProductQuality)),
		ProductType:     economy.ProductType(strings.ToUpper(strings.TrimSpace(r.ProductType))),
		TargetProductID: strings.TrimSpace(r.TargetProductID),
		ApplicantID:     strings.TrimSpace(r.ApplicantID),
	}, nil
}

// Observe returns "" when the model answers without an observation; the caller
// substitutes the default line.
func (o *Oracle) Observe(ctx context.Context, in ports.ObservationContext) (string, error) {
	raw, err := o.client.Complete(ctx, o.models.CEO, observationPrompt(in))
	if err != nil {
		return "", err
	}
	var r observationReply
	if err := decodeReply(observationSchema, raw, &r); err != nil {
		return "", err
	}
	return strings.TrimSpace(r.Observation), nil
}
