package groq

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var ErrInvalidReply = errors.New("invalid oracle reply")

const agentReplySchema = `{
  "type": "object",
  "required": ["action"],
  "properties": {
    "thought_process": {"type": "string"},
    "action": {"type": "string", "minLength": 1},
    "target": {"type": ["string", "null"]}
  }
}`

const ceoReplySchema = `{
  "type": "object",
  "required": ["action"],
  "properties": {
    "thought_process": {"type": "string"},
    "action": {"type": "string", "minLength": 1},
    "productName": {"type": ["string", "null"]},
    "productPrice": {"type": ["number", "null"], "minimum": 0},
    "productQuality": {"type": ["number", "null"]},
    "productType": {"type": ["string", "null"]},
    "targetProductId": {"type": ["string", "null"]},
    "applicantId": {"type": ["string", "null"]}
  }
}`

const observationReplySchema = `{
  "type": "object",
  "properties": {
    "observation": {"type": ["string", "null"]}
  }
}`

var (
	agentSchema       = jsonschema.MustCompileString("agent_reply.schema.json", agentReplySchema)
	ceoSchema         = jsonschema.MustCompileString("ceo_reply.schema.json", ceoReplySchema)
	observationSchema = jsonschema.MustCompileString("observation_reply.schema.json", observationReplySchema)
)

type agentReply struct {
	ThoughtProcess string `json:"thought_process"`
	Action         string `json:"action"`
	Target         string `json:"target"`
}

type ceoReply struct {
	ThoughtProcess  string  `json:"thought_process"`
	Action          string  `json:"action"`
	ProductName     string  `json:"productName"`
	ProductPrice    float64 `json:"productPrice"`
	ProductQuality  float64 `json:"productQuality"`
	ProductType     string  `json:"productType"`
	TargetProductID string  `json:"targetProductId"`
	ApplicantID     string  `json:"applicantId"`
}

type observationReply struct {
	Observation string `json:"observation"`
}

// decodeReply validates raw against schema before decoding it into out.
func decodeReply(schema *jsonschema.Schema, raw string, out any) error {
	raw = strings.TrimSpace(raw)
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}
	return nil
}
