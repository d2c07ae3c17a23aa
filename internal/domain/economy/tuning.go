package economy

const (
	VitalMin = 0
	VitalMax = 100

	OpinionMin = -100
	OpinionMax = 100

	DecayHunger  = 5
	DecayEnergy  = -3
	DecayBoredom = 5

	SleepEnergyRecovery = 25
	SleepHungerDrain    = 2
	WakeEnergyThreshold = 90

	CriticalHunger = 80
	CriticalEnergy = 20

	FreelanceWage      = 50
	WorkEnergyCost     = 10
	WorkBoredomGain    = 5
	RestEnergyRecovery = 25
	SocializeBoredom   = 15

	SatisfactionMin      = 1
	SatisfactionMax      = 10
	SatisfactionSpread   = 10
	LovedItThreshold     = 8
	HatedItThreshold     = 4
	LovedOpinionDelta    = 2
	HatedOpinionDelta    = -5
	LovedReputationDelta = 1
	HatedReputationDelta = -2
	GadgetFunThreshold   = 7
	GadgetOpinionDelta   = 1

	RecentEventsWindow  = 10
	ActionHistoryWindow = 5
	LearningsWindow     = 5
	HistoryWindow       = 5

	DefaultLaunchQuality = 50
	DefaultLaunchPrice   = 10
	UndercutQualityDelta = -5
	UndercutPriceFactor  = 0.8
	ImproveQualityDelta  = 10
	ImprovePriceFactor   = 1.2
	ImproveHungerBoost   = -10
	ImproveBoredomBoost  = -20
	LaunchFundsMultiple  = 10
	QualityMin           = 1
	QualityMax           = 100

	CEOIntelWindow       = 20
	ObservationWindow    = 10
	ObservationPromptCap = 5
)

const (
	AutopilotThought   = "Autopilot: Conserving mental energy."
	FallbackThought    = "fallback"
	FallbackTarget     = "Self"
	DefaultObservation = "Monitoring market conditions."
	ActionCompleted    = "Action Completed"
)

// AutopilotDecision is what a non-thinking agent does.
func AutopilotDecision() AgentDecision {
	return AgentDecision{ThoughtProcess: AutopilotThought, Action: ActionIdle, Target: FallbackTarget}
}

func FallbackAgentDecision() AgentDecision {
	return AgentDecision{ThoughtProcess: FallbackThought, Action: ActionIdle, Target: FallbackTarget}
}

func FallbackCeoDecision() CeoDecision {
	return CeoDecision{ThoughtProcess: FallbackThought, Action: CeoWait}
}
