package config

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"marketsim/internal/domain/economy"
)

var ErrInvalidScenario = errors.New("invalid scenario")

//go:embed scenarios/*.yaml
var scenarioFS embed.FS

const DefaultScenario = "default"

// Scenario is the YAML seed of a fresh world.
type Scenario struct {
	Name      string            `yaml:"name"`
	StartDay  int               `yaml:"start_day"`
	StartHour int               `yaml:"start_hour"`
	Companies []ScenarioCompany `yaml:"companies"`
	Products  []ScenarioProduct `yaml:"products"`
	Agents    []ScenarioAgent   `yaml:"agents"`
}

type ScenarioCompany struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	CEOName       string  `yaml:"ceo_name"`
	Description   string  `yaml:"description"`
	Strategy      string  `yaml:"strategy"`
	Funds         float64 `yaml:"funds"`
	Reputation    int     `yaml:"reputation"`
	OpenPositions int     `yaml:"open_positions"`
	Wage          float64 `yaml:"wage"`
}

type ScenarioEffect struct {
	Hunger  int `yaml:"hunger"`
	Energy  int `yaml:"energy"`
	Boredom int `yaml:"boredom"`
}

func (e ScenarioEffect) effect() economy.Effect {
	return economy.Effect{Hunger: e.Hunger, Energy: e.Energy, Boredom: e.Boredom}
}

type ScenarioProduct struct {
	ID        string         `yaml:"id"`
	CompanyID string         `yaml:"company_id"`
	Name      string         `yaml:"name"`
	ItemType  string         `yaml:"item_type"`
	Price     float64        `yaml:"price"`
	Quality   int            `yaml:"quality"`
	Cost      float64        `yaml:"cost"`
	Effect    ScenarioEffect `yaml:"effect"`
}

type ScenarioItem struct {
	ID        string         `yaml:"id"`
	CompanyID string         `yaml:"company_id"`
	Name      string         `yaml:"name"`
	Type      string         `yaml:"type"`
	Effect    ScenarioEffect `yaml:"effect"`
	Quality   int            `yaml:"quality"`
	Price     float64        `yaml:"price"`
}

type ScenarioVitals struct {
	Hunger  int     `yaml:"hunger"`
	Energy  int     `yaml:"energy"`
	Boredom int     `yaml:"boredom"`
	Money   float64 `yaml:"money"`
}

type ScenarioPersonality struct {
	Type     string   `yaml:"type"`
	Traits   []string `yaml:"traits"`
	Goals    string   `yaml:"goals"`
	Ambition int      `yaml:"ambition"`
}

type ScenarioAgent struct {
	ID             string              `yaml:"id"`
	Name           string              `yaml:"name"`
	Personality    ScenarioPersonality `yaml:"personality"`
	Vitals         ScenarioVitals      `yaml:"vitals"`
	Location       string              `yaml:"location"`
	Inventory      []ScenarioItem      `yaml:"inventory"`
	Employer       string              `yaml:"employer"`
	Wage           float64             `yaml:"wage"`
	SpawnTime      int                 `yaml:"spawn_time"`
	ThinkFrequency int                 `yaml:"think_frequency"`
}

// LoadScenario resolves ref as a file path, or as the name of an embedded
// scenario when no such file exists. An empty ref loads the default scenario.
func LoadScenario(ref string) (Scenario, error) {
	if ref == "" {
		ref = DefaultScenario
	}
	data, err := os.ReadFile(ref)
	if errors.Is(err, os.ErrNotExist) {
		data, err = scenarioFS.ReadFile("scenarios/" + strings.TrimSuffix(ref, ".yaml") + ".yaml")
		if err != nil {
			return Scenario{}, fmt.Errorf("%w: unknown scenario %q", ErrInvalidScenario, ref)
		}
	} else if err != nil {
		return Scenario{}, fmt.Errorf("read scenario %s: %w", ref, err)
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return Scenario{}, fmt.Errorf("%w: empty document", ErrInvalidScenario)
		}
		return Scenario{}, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if _, err := s.World(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

func parseItemType(raw string) (economy.ItemType, bool) {
	switch t := economy.ItemType(strings.ToLower(strings.TrimSpace(raw))); t {
	case economy.ItemFood, economy.ItemGadget, economy.ItemService:
		return t, true
	}
	return "", false
}

// World builds the seed world. Agents whose spawn time is not after the start
// hour begin active.
func (s Scenario) World() (economy.World, error) {
	if s.StartHour < 0 || s.StartHour > 23 {
		return economy.World{}, fmt.Errorf("%w: start_hour %d out of range", ErrInvalidScenario, s.StartHour)
	}
	w := economy.World{Day: s.StartDay, Time: s.StartHour}
	if w.Day <= 0 {
		w.Day = 1
	}

	for _, c := range s.Companies {
		w.Companies = append(w.Companies, economy.Company{
			ID:            c.ID,
			Name:          c.Name,
			CEOName:       c.CEOName,
			Description:   c.Description,
			Strategy:      c.Strategy,
			Funds:         c.Funds,
			Reputation:    c.Reputation,
			OpenPositions: c.OpenPositions,
			Wage:          c.Wage,
		})
	}

	for _, p := range s.Products {
		it, ok := parseItemType(p.ItemType)
		if !ok {
			return economy.World{}, fmt.Errorf("%w: product %q has unknown item type %q", ErrInvalidScenario, p.ID, p.ItemType)
		}
		w.Market = append(w.Market, economy.Product{
			ID:        p.ID,
			CompanyID: p.CompanyID,
			Name:      p.Name,
			ItemType:  it,
			Price:     p.Price,
			Quality:   p.Quality,
			Cost:      p.Cost,
			Effect:    p.Effect.effect(),
		})
	}

	for _, a := range s.Agents {
		loc := economy.LocationHome
		if a.Location != "" {
			parsed, ok := economy.ParseLocation(a.Location)
			if !ok {
				return economy.World{}, fmt.Errorf("%w: agent %q at unknown location %q", ErrInvalidScenario, a.ID, a.Location)
			}
			loc = parsed
		}
		agent := economy.Agent{
			ID:   a.ID,
			Name: a.Name,
			Personality: economy.Personality{
				Type:     a.Personality.Type,
				Traits:   a.Personality.Traits,
				Goals:    a.Personality.Goals,
				Ambition: a.Personality.Ambition,
			},
			Vitals:         economy.Vitals(a.Vitals),
			Location:       loc,
			Employer:       a.Employer,
			Wage:           a.Wage,
			SpawnTime:      a.SpawnTime,
			ThinkFrequency: a.ThinkFrequency,
			Spawned:        a.SpawnTime <= s.StartHour,
		}
		for _, item := range a.Inventory {
			it, ok := parseItemType(item.Type)
			if !ok {
				return economy.World{}, fmt.Errorf("%w: item %q of agent %q has unknown type %q", ErrInvalidScenario, item.ID, a.ID, item.Type)
			}
			agent.Inventory = append(agent.Inventory, economy.InventoryItem{
				ID:        item.ID,
				CompanyID: item.CompanyID,
				Name:      item.Name,
				Type:      it,
				Effect:    item.Effect.effect(),
				Quality:   item.Quality,
				Price:     item.Price,
			})
		}
		w.Agents = append(w.Agents, agent)
	}

	w.Normalize()
	if err := w.Validate(); err != nil {
		return economy.World{}, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	return w, nil
}
