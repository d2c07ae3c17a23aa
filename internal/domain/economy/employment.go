package economy

import (
	"fmt"
	"slices"
)

// hire moves an applicant onto the payroll. The applicant must still be unemployed
// and the company must have an open position.
func (t *Tick) hire(c *Company, applicantID string) (bool, string) {
	pos := slices.Index(c.Applicants, applicantID)
	if applicantID == "" || pos < 0 {
		return false, fmt.Sprintf("Tried to HIRE %s but they never applied.", t.agentName(applicantID))
	}
	if c.OpenPositions <= 0 {
		return false, "Tried to HIRE but has no open positions."
	}
	ai := t.world.AgentIndex(applicantID)
	if ai < 0 {
		c.Applicants = slices.Delete(c.Applicants, pos, pos+1)
		return false, fmt.Sprintf("Tried to HIRE %s but they are gone.", applicantID)
	}
	a := &t.world.Agents[ai]
	c.Applicants = slices.Delete(c.Applicants, pos, pos+1)
	if a.Employed() {
		return false, fmt.Sprintf("Tried to HIRE %s but they already work at %s.", a.Name, t.world.CompanyName(a.Employer))
	}
	c.Employees = append(c.Employees, a.ID)
	c.OpenPositions--
	a.Employer = c.ID
	a.Wage = c.Wage
	a.remember(fmt.Sprintf("Hired by %s.", c.Name))
	a.Memory.RecentEvents = lastN(a.Memory.RecentEvents, RecentEventsWindow)
	return true, fmt.Sprintf("HIRED %s at %s/hour.", a.Name, formatMoney(c.Wage))
}

func (t *Tick) reject(c *Company, applicantID string) (bool, string) {
	pos := slices.Index(c.Applicants, applicantID)
	if applicantID == "" || pos < 0 {
		return false, fmt.Sprintf("Tried to REJECT %s but they never applied.", t.agentName(applicantID))
	}
	c.Applicants = slices.Delete(c.Applicants, pos, pos+1)
	if ai := t.world.AgentIndex(applicantID); ai >= 0 {
		a := &t.world.Agents[ai]
		a.remember(fmt.Sprintf("Rejected by %s.", c.Name))
		a.Memory.RecentEvents = lastN(a.Memory.RecentEvents, RecentEventsWindow)
	}
	return true, fmt.Sprintf("REJECTED applicant %s.", t.agentName(applicantID))
}

func (t *Tick) agentName(id string) string {
	if i := t.world.AgentIndex(id); i >= 0 {
		return t.world.Agents[i].Name
	}
	if id == "" {
		return "someone"
	}
	return id
}
