package router

// Mode selects the conversational posture of the coach stage.
type Mode string

const (
	ModeNormalSupport   Mode = "normal_support"
	ModeGrounding       Mode = "grounding"
	ModeTherapyPrep     Mode = "therapy_prep"
	ModeCrisisResources Mode = "crisis_resources"
)

// PrivacyContext says how freely the coach can speak.
type PrivacyContext string

const (
	PrivacyUnknown           PrivacyContext = "unknown"
	PrivacyPrivate           PrivacyContext = "private"
	PrivacyBystanderPossible PrivacyContext = "bystander_possible"
)

// RiskLevel is the classifier's read of the user's current state.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Decision is the routing classification for one turn. It never leaves the
// pipeline; only the coach reply does.
type Decision struct {
	Mode           Mode
	PrivacyContext PrivacyContext
	RiskLevel      RiskLevel
}

// DefaultDecision is the safe classification used when routing fails or a
// field comes back out of domain.
func DefaultDecision() Decision {
	return Decision{
		Mode:           ModeNormalSupport,
		PrivacyContext: PrivacyUnknown,
		RiskLevel:      RiskLow,
	}
}

var validModes = map[Mode]struct{}{
	ModeNormalSupport:   {},
	ModeGrounding:       {},
	ModeTherapyPrep:     {},
	ModeCrisisResources: {},
}

var validPrivacyContexts = map[PrivacyContext]struct{}{
	PrivacyUnknown:           {},
	PrivacyPrivate:           {},
	PrivacyBystanderPossible: {},
}

var validRiskLevels = map[RiskLevel]struct{}{
	RiskLow:    {},
	RiskMedium: {},
	RiskHigh:   {},
}
