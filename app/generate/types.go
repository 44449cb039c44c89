package generate

// Outcome classifies one generation attempt against a source item or theme.
type Outcome int

const (
	// OutcomeSuccess means the reply parsed into the mandatory sections.
	OutcomeSuccess Outcome = iota
	// OutcomeUnavailable means content could not be acquired or the
	// completion call failed. The item is permanently retired.
	OutcomeUnavailable
	// OutcomeOutOfDomain means the completion returned the off-topic
	// marker. The item is permanently retired.
	OutcomeOutOfDomain
	// OutcomeParseFailure means a reply arrived but the mandatory sections
	// could not be located. The item stays a candidate for the next pass.
	OutcomeParseFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeOutOfDomain:
		return "out_of_domain"
	case OutcomeParseFailure:
		return "parse_failure"
	default:
		return "unknown"
	}
}
