package economy

import "strings"

type Vitals struct {
	Hunger  int     `json:"hunger"`
	Energy  int     `json:"energy"`
	Boredom int     `json:"boredom"`
	Money   float64 `json:"money"`
}

type Effect struct {
	Hunger  int `json:"hunger,omitempty"`
	Energy  int `json:"energy,omitempty"`
	Boredom int `json:"boredom,omitempty"`
}

type Location string

const (
	LocationHome        Location = "Home"
	LocationOffice      Location = "Office"
	LocationSupermarket Location = "Supermarket"
	LocationPark        Location = "Park"
)

var Locations = []Location{LocationHome, LocationOffice, LocationSupermarket, LocationPark}

func ParseLocation(raw string) (Location, bool) {
	raw = strings.TrimSpace(raw)
	for _, loc := range Locations {
		if strings.EqualFold(raw, string(loc)) {
			return loc, true
		}
	}
	return "", false
}

type ItemType string

const (
	ItemFood    ItemType = "food"
	ItemGadget  ItemType = "gadget"
	ItemService ItemType = "service"
)

func (t ItemType) Consumable() bool {
	return t == ItemFood || t == ItemService
}

type InventoryItem struct {
	ID        string   `json:"id"`
	ProductID string   `json:"product_id,omitempty"`
	CompanyID string   `json:"company_id"`
	Name      string   `json:"name"`
	Type      ItemType `json:"type"`
	Effect    Effect   `json:"effect"`
	Quality   int      `json:"quality"`
	Price     float64  `json:"price"`
}

type Product struct {
	ID        string   `json:"id"`
	CompanyID string   `json:"company_id"`
	Name      string   `json:"name"`
	ItemType  ItemType `json:"item_type"`
	Price     float64  `json:"price"`
	Quality   int      `json:"quality"`
	Cost      float64  `json:"cost"`
	Effect    Effect   `json:"effect"`
	Ratings   []int    `json:"ratings"`
}

// AverageRating returns the rounded mean rating and whether any rating exists.
func (p Product) AverageRating() (int, bool) {
	if len(p.Ratings) == 0 {
		return 0, false
	}
	sum := 0
	for _, r := range p.Ratings {
		sum += r
	}
	return roundHalfUp(float64(sum) / float64(len(p.Ratings))), true
}

type Company struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	CEOName         string   `json:"ceo_name"`
	Description     string   `json:"description,omitempty"`
	Strategy        string   `json:"strategy"`
	Funds           float64  `json:"funds"`
	Reputation      int      `json:"reputation"`
	Employees       []string `json:"employees"`
	Applicants      []string `json:"applicants"`
	OpenPositions   int      `json:"open_positions"`
	Wage            float64  `json:"wage"`
	LastObservation string   `json:"last_observation,omitempty"`
}

type Personality struct {
	Type     string   `json:"type"`
	Traits   []string `json:"traits"`
	Goals    string   `json:"goals"`
	Ambition int      `json:"ambition"`
}

type PurchaseRecord struct {
	ProductName  string  `json:"product_name"`
	Price        float64 `json:"price"`
	Satisfaction int     `json:"satisfaction"`
	Time         int     `json:"time"`
}

type Memory struct {
	PurchaseHistory []PurchaseRecord `json:"purchase_history"`
	Learnings       []string         `json:"learnings"`
	RecentEvents    []string         `json:"recent_events"`
	BrandOpinions   map[string]int   `json:"brand_opinions"`
	ActionHistory   []ActionResult   `json:"action_history"`
}

type Agent struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Personality    Personality     `json:"personality"`
	Vitals         Vitals          `json:"vitals"`
	Location       Location        `json:"location"`
	Inventory      []InventoryItem `json:"inventory"`
	Memory         Memory          `json:"memory"`
	LastDecision   *AgentDecision  `json:"last_decision,omitempty"`
	Employer       string          `json:"employer,omitempty"`
	Wage           float64         `json:"wage"`
	SpawnTime      int             `json:"spawn_time"`
	ThinkFrequency int             `json:"think_frequency"`
	Spawned        bool            `json:"spawned"`
	History        []string        `json:"history"`
}

func (a Agent) Employed() bool {
	return a.Employer != ""
}

func (a Agent) lastAction() ActionType {
	if a.LastDecision == nil {
		return ""
	}
	return a.LastDecision.Action
}

type ActionType string

const (
	ActionMove      ActionType = "MOVE"
	ActionWork      ActionType = "WORK"
	ActionBuy       ActionType = "BUY"
	ActionConsume   ActionType = "CONSUME"
	ActionUse       ActionType = "USE"
	ActionSleep     ActionType = "SLEEP"
	ActionRest      ActionType = "REST"
	ActionSocialize ActionType = "SOCIALIZE"
	ActionIdle      ActionType = "IDLE"
	ActionApply     ActionType = "APPLY"
)

var AgentActions = []ActionType{
	ActionMove, ActionWork, ActionBuy, ActionConsume, ActionUse,
	ActionSleep, ActionRest, ActionSocialize, ActionIdle, ActionApply,
}

// ParseActionType upper-cases raw; unknown names are kept and resolve as idle.
func ParseActionType(raw string) ActionType {
	return ActionType(strings.ToUpper(strings.TrimSpace(raw)))
}

type AgentDecision struct {
	ThoughtProcess string     `json:"thought_process"`
	Action         ActionType `json:"action"`
	Target         string     `json:"target"`
}

type CeoAction string

const (
	CeoLaunchProduct   CeoAction = "LAUNCH_PRODUCT"
	CeoUndercut        CeoAction = "UNDERCUT"
	CeoImprove         CeoAction = "IMPROVE"
	CeoWithdrawProduct CeoAction = "WITHDRAW_PRODUCT"
	CeoWait            CeoAction = "WAIT"
	CeoHire            CeoAction = "HIRE"
	CeoReject          CeoAction = "REJECT"
)

var CeoActions = []CeoAction{
	CeoLaunchProduct, CeoUndercut, CeoImprove, CeoWithdrawProduct, CeoWait, CeoHire, CeoReject,
}

func ParseCeoAction(raw string) CeoAction {
	return CeoAction(strings.ToUpper(strings.TrimSpace(raw)))
}

type ProductType string

const (
	ProductFood   ProductType = "FOOD"
	ProductDrink  ProductType = "DRINK"
	ProductGadget ProductType = "GADGET"
)

// CeoDecision zero values mean "not specified" for the optional product fields.
type CeoDecision struct {
	ThoughtProcess  string      `json:"thought_process"`
	Action          CeoAction   `json:"action"`
	ProductName     string      `json:"product_name,omitempty"`
	ProductPrice    float64     `json:"product_price,omitempty"`
	ProductQuality  int         `json:"product_quality,omitempty"`
	ProductType     ProductType `json:"product_type,omitempty"`
	TargetProductID string      `json:"target_product_id,omitempty"`
	ApplicantID     string      `json:"applicant_id,omitempty"`
}

type ActionResult struct {
	Tick    int        `json:"tick"`
	Action  ActionType `json:"action"`
	Target  string     `json:"target"`
	Success bool       `json:"success"`
	Message string     `json:"message"`
}

type LogKind string

const (
	LogAction  LogKind = "action"
	LogThought LogKind = "thought"
	LogSystem  LogKind = "system"
	LogMarket  LogKind = "market"
)

type LogEntry struct {
	Seq       int64   `json:"seq"`
	Day       int     `json:"day"`
	Time      int     `json:"time"`
	ActorName string  `json:"actor_name"`
	Message   string  `json:"message"`
	Kind      LogKind `json:"kind"`
}

// Line formats the entry the way oracles read it back.
func (e LogEntry) Line() string {
	return e.ActorName + ": " + e.Message
}
