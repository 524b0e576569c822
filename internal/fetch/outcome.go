package fetch

import "time"

// Kind identifies which Outcome variant holds.
type Kind int

const (
	Displayable Kind = iota
	Rejected
	SystemFailure
)

func (k Kind) String() string {
	switch k {
	case Displayable:
		return "displayable"
	case Rejected:
		return "rejected"
	case SystemFailure:
		return "system_failure"
	default:
		return "unknown"
	}
}

const (
	// ReasonNotImage is the rejection reason for records that are not images.
	ReasonNotImage = "not an image"

	genericFailure = "Unexpected error fetching data"
)

// Presentation holds the display-ready fields of a Displayable outcome.
type Presentation struct {
	Title       string
	Credit      string // already labelled, empty when the record carries no credit
	Date        string // long form, e.g. "Saturday, July 4, 2020"
	Explanation string
	ImagePath   string
}

// Outcome is the classified result of one completed fetch.
type Outcome struct {
	Kind      Kind
	RequestID string
	Date      time.Time

	Record       Record
	Presentation Presentation

	Reason string // Rejected only
	Detail string // SystemFailure only; never shown to users
}

// Message returns the text a driver may show the user for this outcome.
func (o Outcome) Message() string {
	switch o.Kind {
	case Rejected:
		if o.Reason == ReasonNotImage {
			return "The response is not an image. Try another date."
		}
		return o.Reason
	case SystemFailure:
		return genericFailure
	default:
		return ""
	}
}

func displayable(date time.Time, rec Record, p Presentation) Outcome {
	return Outcome{Kind: Displayable, Date: date, Record: rec, Presentation: p}
}

func rejected(date time.Time, reason string) Outcome {
	return Outcome{Kind: Rejected, Date: date, Reason: reason}
}

func systemFailure(date time.Time, detail string) Outcome {
	return Outcome{Kind: SystemFailure, Date: date, Detail: detail}
}
