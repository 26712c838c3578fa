package domain

// ErrorState is the closed set of reasons a joke download can fail.
// Names are stable: logs and metric labels use them.
type ErrorState int

const (
	NoError ErrorState = iota
	Http4xx
	Http5xx
	EmptyResultSet
	NoNewUniqueJokes
	UnclassifiedFailure
	ConnectivityFailure
)

var errorStateNames = [...]string{
	NoError:             "no_error",
	Http4xx:             "http_4xx",
	Http5xx:             "http_5xx",
	EmptyResultSet:      "empty_result_set",
	NoNewUniqueJokes:    "no_new_unique_jokes",
	UnclassifiedFailure: "unclassified_failure",
	ConnectivityFailure: "connectivity_failure",
}

var errorStateDescriptions = [...]string{
	NoError:             "Something went wrong. Please try again.",
	Http4xx:             "The joke server rejected the request. Please try again later.",
	Http5xx:             "The joke server is having problems right now. Please try again later.",
	EmptyResultSet:      "The joke server could not find any jokes matching the filters.",
	NoNewUniqueJokes:    "The joke server ran out of new jokes before the list was full.",
	UnclassifiedFailure: "Something went wrong. Please try again.",
	ConnectivityFailure: "Cannot reach the joke server. Check your internet connection.",
}

func (s ErrorState) valid() bool {
	return s >= NoError && int(s) < len(errorStateNames)
}

// String returns the stable snake_case name of the state.
func (s ErrorState) String() string {
	if !s.valid() {
		return errorStateNames[UnclassifiedFailure]
	}
	return errorStateNames[s]
}

// Description returns the message shown to the user for this state.
// NoError maps to the generic message; it is never rendered as an error.
func (s ErrorState) Description() string {
	if !s.valid() {
		return errorStateDescriptions[UnclassifiedFailure]
	}
	return errorStateDescriptions[s]
}
