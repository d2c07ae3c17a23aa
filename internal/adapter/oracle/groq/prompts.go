package groq

import (
	"fmt"
	"strconv"
	"strings"

	"marketsim/internal/app/ports"
	"marketsim/internal/domain/economy"
)

const (
	promptRecentEvents = 6
	lovedBrandOpinion  = 5
	hatedBrandOpinion  = -5
	defaultReputation  = 50
)

func money(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}

func companyName(companies []economy.Company, id string) string {
	for _, c := range companies {
		if c.ID == id {
			return c.Name
		}
	}
	return "Unknown"
}

func ratingText(p economy.Product, empty string) string {
	avg, ok := p.AverageRating()
	if !ok {
		return empty
	}
	return fmt.Sprintf(" | Avg Rating: %d/%d (%d reviews)", avg, economy.SatisfactionMax, len(p.Ratings))
}

func effectText(e economy.Effect) string {
	var parts []string
	if e.Hunger != 0 {
		parts = append(parts, fmt.Sprintf("Hunger %d", e.Hunger))
	}
	if e.Energy != 0 {
		parts = append(parts, fmt.Sprintf("Energy %+d", e.Energy))
	}
	if e.Boredom != 0 {
		parts = append(parts, fmt.Sprintf("Boredom %d", e.Boredom))
	}
	if len(parts) == 0 {
		return ""
	}
	return " | Effects: " + strings.Join(parts, ", ")
}

func agentMarketList(a economy.Agent, market []economy.Product, companies []economy.Company) string {
	lines := make([]string, 0, len(market))
	for _, p := range market {
		opinion := ""
		switch score := a.Memory.BrandOpinions[p.CompanyID]; {
		case score > lovedBrandOpinion:
			opinion = " [I LOVE THIS BRAND]"
		case score < hatedBrandOpinion:
			opinion = " [I HATE THIS BRAND]"
		}
		lines = append(lines, fmt.Sprintf("- %s (%s) | %s | Quality: %d%s%s%s",
			p.Name, companyName(companies, p.CompanyID), money(p.Price), p.Quality,
			effectText(p.Effect), ratingText(p, ""), opinion))
	}
	if len(lines) == 0 {
		return "No products available"
	}
	return strings.Join(lines, "\n")
}

func lastActionFeedback(a economy.Agent) string {
	h := a.Memory.ActionHistory
	if len(h) == 0 {
		return "Last Hour: Nothing significant."
	}
	last := h[len(h)-1]
	result := "FAILED"
	if last.Success {
		result = "SUCCESS"
	}
	return fmt.Sprintf("Last Hour You Tried To: %s %s. Result: %s. Reason: %s", last.Action, last.Target, result, last.Message)
}

func inventoryList(a economy.Agent) string {
	if len(a.Inventory) == 0 {
		return "Empty"
	}
	items := make([]string, 0, len(a.Inventory))
	for _, it := range a.Inventory {
		items = append(items, fmt.Sprintf("%s (%s)", it.Name, it.Type))
	}
	return strings.Join(items, ", ")
}

func hiringList(companies []economy.Company) string {
	var open []string
	for _, c := range companies {
		if c.OpenPositions > 0 {
			open = append(open, fmt.Sprintf("%s (%d open, %s/hour)", c.Name, c.OpenPositions, money(c.Wage)))
		}
	}
	if len(open) == 0 {
		return "Nobody is hiring."
	}
	return strings.Join(open, ", ")
}

func locationNames(locs []economy.Location) string {
	if len(locs) == 0 {
		locs = economy.Locations
	}
	names := make([]string, 0, len(locs))
	for _, l := range locs {
		names = append(names, string(l))
	}
	return strings.Join(names, ", ")
}

func agentPrompt(in ports.AgentContext) string {
	a := in.Agent
	recent := a.Memory.RecentEvents
	if len(recent) > promptRecentEvents {
		recent = recent[len(recent)-promptRecentEvents:]
	}
	recentLog := strings.Join(recent, "; ")
	if recentLog == "" {
		recentLog = "Just woke up."
	}

	employment := "Unemployed"
	workRule := fmt.Sprintf("You can work freelance for %s/hour", money(economy.FreelanceWage))
	if a.Employed() {
		name := companyName(in.Companies, a.Employer)
		employment = fmt.Sprintf("Employed at %s (Wage: %s/hour)", name, money(a.Wage))
		workRule = "You work for " + name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a simulation agent named %s.\n\n", a.Name)
	b.WriteString("IDENTITY:\n")
	fmt.Fprintf(&b, "Traits: %s\n", strings.Join(a.Personality.Traits, ", "))
	fmt.Fprintf(&b, "Goal: %s\n", a.Personality.Goals)
	fmt.Fprintf(&b, "Ambition: %d/100 (affects work drive and spending)\n\n", a.Personality.Ambition)

	fmt.Fprintf(&b, "STATE (Day %d, Time: %d:00):\n", in.Day, in.Hour)
	fmt.Fprintf(&b, "- Location: %s\n", a.Location)
	fmt.Fprintf(&b, "- Vitals: Hunger %d/100, Energy %d/100, Boredom %d/100\n", a.Vitals.Hunger, a.Vitals.Energy, a.Vitals.Boredom)
	fmt.Fprintf(&b, "- Wallet: %s\n", money(a.Vitals.Money))
	fmt.Fprintf(&b, "- Employment: %s\n", employment)
	fmt.Fprintf(&b, "- Inventory: %s\n\n", inventoryList(a))

	b.WriteString("MEMORY STREAM:\n")
	fmt.Fprintf(&b, "- Recent Events: %s\n", recentLog)
	fmt.Fprintf(&b, "- Immediate Feedback: %s\n\n", lastActionFeedback(a))

	b.WriteString("AVAILABLE PRODUCTS (at Supermarket):\n")
	b.WriteString(agentMarketList(a, in.Market, in.Companies))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "HIRING: %s\n\n", hiringList(in.Companies))

	b.WriteString("CRITICAL RULES:\n")
	fmt.Fprintf(&b, "1. WORK -> Must be at 'Office'. %s.\n", workRule)
	b.WriteString("2. BUY <product name> -> Must be at 'Supermarket'. Use EXACT product names from the list above.\n")
	b.WriteString("3. CONSUME <item> -> Can be done ANYWHERE if item is in inventory. Removes the item.\n")
	b.WriteString("4. USE <gadget> -> Can be done ANYWHERE if gadget is in inventory. Reusable.\n")
	b.WriteString("5. SLEEP -> Must be at 'Home'. Lasts until energy is restored.\n")
	fmt.Fprintf(&b, "6. REST -> Can be done ANYWHERE. Takes 1 hour, restores +%d energy. Quick recharge.\n", economy.RestEnergyRecovery)
	b.WriteString("7. SOCIALIZE -> Must be at 'Park'. Reduces boredom.\n")
	fmt.Fprintf(&b, "8. MOVE <location> -> Valid locations: %s\n", locationNames(in.Locations))
	b.WriteString("9. APPLY <company name> -> Apply for a job at a hiring company. Only when unemployed.\n\n")

	b.WriteString("DECISION PROCESS:\n")
	b.WriteString("1. Check last action feedback. If it failed, fix the issue.\n")
	b.WriteString("2. Prioritize critical vitals: Hunger > 70, Energy < 25, Boredom > 80.\n")
	b.WriteString("3. Use REST for quick energy boost when away from home. Use SLEEP at home for full restore.\n")
	b.WriteString("4. You can eat/consume items ANYWHERE.\n")
	b.WriteString("5. Consider ambition: High ambition = work more, low ambition = prioritize fun.\n")
	b.WriteString("6. Check product ratings before buying. Avoid low-rated items.\n\n")

	b.WriteString("Task: Return JSON for your next move.\n")
	b.WriteString(`Format: {"thought_process": "string", "action": "MOVE|WORK|BUY|CONSUME|USE|SLEEP|REST|SOCIALIZE|APPLY|IDLE", "target": "string"}`)
	return b.String()
}

func companyMarketSnapshot(self economy.Company, market []economy.Product, companies []economy.Company) string {
	lines := make([]string, 0, len(market))
	for _, p := range market {
		owner := "Unknown"
		rep := defaultReputation
		for _, c := range companies {
			if c.ID == p.CompanyID {
				owner, rep = c.Name, c.Reputation
				break
			}
		}
		mine := ""
		if p.CompanyID == self.ID {
			mine = " [MINE]"
		}
		lines = append(lines, fmt.Sprintf("ID: %s | %s | %s | Quality: %d%s | %s (Rep: %d)%s",
			p.ID, p.Name, money(p.Price), p.Quality, ratingText(p, " | No ratings yet"), owner, rep, mine))
	}
	if len(lines) == 0 {
		return "The shelves are empty."
	}
	return strings.Join(lines, "\n")
}

func applicantList(applicants []economy.Agent) string {
	if len(applicants) == 0 {
		return "No pending applications."
	}
	lines := make([]string, 0, len(applicants))
	for _, a := range applicants {
		lines = append(lines, fmt.Sprintf("ID: %s | %s | Ambition: %d/100 | Traits: %s",
			a.ID, a.Name, a.Personality.Ambition, strings.Join(a.Personality.Traits, ", ")))
	}
	return strings.Join(lines, "\n")
}

func companyPrompt(in ports.CompanyContext) string {
	c := in.Company
	intel := strings.Join(in.Intel, "\n")
	if intel == "" {
		intel = "Nothing yet."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, CEO of %s.\n", c.CEOName, c.Name)
	fmt.Fprintf(&b, "Strategy: %s\n", c.Strategy)
	fmt.Fprintf(&b, "Funds: %s\n", money(c.Funds))
	fmt.Fprintf(&b, "Reputation: %d/100\n", c.Reputation)
	fmt.Fprintf(&b, "Staff: %d employees, %d open positions, wage %s/hour\n\n", len(c.Employees), c.OpenPositions, money(c.Wage))

	b.WriteString("COMPETITIVE LANDSCAPE:\n")
	b.WriteString(companyMarketSnapshot(c, in.Market, in.Companies))
	b.WriteString("\n\nRECENT CUSTOMER CHATTER:\n")
	b.WriteString(intel)
	b.WriteString("\n\nJOB APPLICANTS:\n")
	b.WriteString(applicantList(in.Applicants))
	b.WriteString("\n\n")

	b.WriteString("TACTICAL OPTIONS:\n")
	b.WriteString("1. LAUNCH_PRODUCT: Create something entirely new.\n")
	b.WriteString("2. UNDERCUT: Target a competitor's successful product (targetProductId). Launch a cheaper version to steal their customers.\n")
	b.WriteString("3. IMPROVE: Target YOUR OWN existing product (targetProductId). Launch a \"Pro\" version with higher quality and price.\n")
	fmt.Fprintf(&b, "4. WITHDRAW_PRODUCT: Remove a failing product (targetProductId) with low ratings (< %d/%d) to protect brand reputation.\n", economy.HatedItThreshold, economy.SatisfactionMax)
	b.WriteString("5. HIRE: Hire a pending applicant (applicantId) if you have open positions.\n")
	b.WriteString("6. REJECT: Turn down a pending applicant (applicantId).\n")
	b.WriteString("7. WAIT: Save money.\n\n")

	b.WriteString("STRATEGIC TIPS:\n")
	fmt.Fprintf(&b, "- Pay attention to average ratings. Products rated below %d/%d hurt your reputation.\n", economy.HatedItThreshold, economy.SatisfactionMax)
	fmt.Fprintf(&b, "- High-rated competitor products (> %d/%d) are good targets to UNDERCUT.\n", economy.LovedItThreshold-1, economy.SatisfactionMax)
	b.WriteString("- If your product has high ratings, consider launching an IMPROVE version.\n")
	fmt.Fprintf(&b, "- Launching costs %dx the unit production cost up front.\n\n", economy.LaunchFundsMultiple)

	b.WriteString("TASK:\n")
	b.WriteString("Analyze the market. Aggressively compete if you have funds (> $2000). Protect your reputation.\n\n")
	b.WriteString("Response JSON format:\n")
	b.WriteString(`{
  "thought_process": "string",
  "action": "LAUNCH_PRODUCT" | "UNDERCUT" | "IMPROVE" | "WITHDRAW_PRODUCT" | "HIRE" | "REJECT" | "WAIT",
  "productName": "string (optional)",
  "productPrice": number (optional),
  "productQuality": number (optional),
  "productType": "FOOD" | "DRINK" | "GADGET" (optional),
  "targetProductId": "string (optional)",
  "applicantId": "string (optional)"
}`)
	return b.String()
}

func observationPrompt(in ports.ObservationContext) string {
	c := in.Company
	lines := in.Lines
	if len(lines) > economy.ObservationPromptCap {
		lines = lines[len(lines)-economy.ObservationPromptCap:]
	}
	activity := strings.Join(lines, "\n")
	if activity == "" {
		activity = "Market has been quiet."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, CEO of %s.\n\n", c.CEOName, c.Name)
	b.WriteString("STATUS:\n")
	fmt.Fprintf(&b, "- Funds: %s\n", money(c.Funds))
	fmt.Fprintf(&b, "- Reputation: %d/100\n\n", c.Reputation)
	b.WriteString("WHAT JUST HAPPENED:\n")
	b.WriteString(activity)
	b.WriteString("\n\nProvide a BRIEF observation (2-3 sentences max):\n")
	b.WriteString("- What are you noticing?\n")
	b.WriteString("- How do you feel?\n\n")
	b.WriteString("Keep it conversational and emotional.\n\n")
	b.WriteString("Response JSON format:\n")
	b.WriteString(`{"observation": "string"}`)
	return b.String()
}
