package schemas

// Strategy identifies the construction rule a locator candidate was built
// with. The order of the constants is the fallback priority order: earlier
// strategies are preferred when confidence scores tie.
type Strategy string

const (
	StrategyID         Strategy = "ID"
	StrategyName       Strategy = "NAME"
	StrategyClass      Strategy = "CLASS"
	StrategyText       Strategy = "TEXT"
	StrategyCombined   Strategy = "COMBINED"
	StrategyPositional Strategy = "POSITIONAL"
)

// Priority returns the rank of the strategy in the fallback order, lower is
// stronger. Unknown strategies sort last.
func (s Strategy) Priority() int {
	switch s {
	case StrategyID:
		return 0
	case StrategyName:
		return 1
	case StrategyClass:
		return 2
	case StrategyText:
		return 3
	case StrategyCombined:
		return 4
	case StrategyPositional:
		return 5
	default:
		return 6
	}
}

// FailureReason classifies a terminal resolution failure.
type FailureReason string

const (
	// ReasonTargetNotFound means the description matched no element at all.
	ReasonTargetNotFound FailureReason = "TARGET_NOT_FOUND"
	// ReasonNoUniqueLocator means every generated candidate was ambiguous or
	// matched nothing.
	ReasonNoUniqueLocator FailureReason = "NO_UNIQUE_LOCATOR"
)

// Verdict is the outcome of checking a candidate expression against the
// document it was generated from.
type Verdict string

const (
	VerdictUnique    Verdict = "UNIQUE"
	VerdictAmbiguous Verdict = "AMBIGUOUS"
	VerdictNoMatch   Verdict = "NO_MATCH"
)

// Candidate is a generated locator with its reliability score. MatchCount and
// Verdict are filled in once the candidate has been evaluated against the
// originating document.
type Candidate struct {
	Expression string   `json:"expression"`
	Strategy   Strategy `json:"strategy"`
	Confidence float64  `json:"confidence"`
	MatchCount int      `json:"match_count"`
	Verdict    Verdict  `json:"verdict"`
}

// AttemptedStrategy records one candidate that was tried during resolution,
// kept for diagnostics regardless of whether it survived the uniqueness
// filter.
type AttemptedStrategy struct {
	Strategy   Strategy `json:"strategy"`
	Expression string   `json:"expression"`
	MatchCount int      `json:"match_count"`
	Verdict    Verdict  `json:"verdict"`
}

// ResolutionResult is the terminal outcome of a locator resolution request.
// On success, Candidate holds the winning locator and Alternates the
// remaining unique candidates in descending confidence order. On failure,
// Reason is set and Attempted lists everything that was tried.
type ResolutionResult struct {
	Success    bool                `json:"success"`
	Candidate  *Candidate          `json:"candidate,omitempty"`
	Alternates []Candidate         `json:"alternates,omitempty"`
	Reason     FailureReason       `json:"reason,omitempty"`
	Attempted  []AttemptedStrategy `json:"attempted,omitempty"`
}

// ElementSummary describes a single element surfaced by structure analysis.
type ElementSummary struct {
	Tag   string `json:"tag"`
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Class string `json:"class,omitempty"`
	Type  string `json:"type,omitempty"`
	Text  string `json:"text,omitempty"`
}

// DocumentSummary is the read-only structure report consumed by the
// analyze-html feature.
type DocumentSummary struct {
	TotalElements int            `json:"total_elements"`
	TagCounts     map[string]int `json:"tag_counts"`
	MaxDepth      int            `json:"max_depth"`
	// Identified lists elements carrying an id, name or class attribute.
	Identified []ElementSummary `json:"identified_elements"`
	// Interactive lists buttons, inputs, links and other elements a test
	// would plausibly drive.
	Interactive []ElementSummary `json:"interactive_elements"`
}

// -- HTTP wire types --

// ResolveRequest is the payload of POST /generate-xpath and
// POST /analyze-html.
type ResolveRequest struct {
	HTMLContent       string `json:"html_content"`
	TargetDescription string `json:"target_description"`
	ElementType       string `json:"element_type,omitempty"`
	AdditionalContext string `json:"additional_context,omitempty"`
}

// ResolveResponse mirrors ResolutionResult for the HTTP surface, with the
// request id echoed back for correlation.
type ResolveResponse struct {
	RequestID string           `json:"request_id"`
	Result    ResolutionResult `json:"result"`
	// Reasoning is a human readable trace of how the winner was picked,
	// including whether the AI source contributed.
	Reasoning string `json:"reasoning,omitempty"`
}

// TestScenario is one generated scenario in the test-scenario supplement.
type TestScenario struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Steps          []string `json:"steps"`
	ExpectedResult string   `json:"expected_result"`
	Priority       string   `json:"priority"`
}
