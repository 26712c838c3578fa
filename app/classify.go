package app

import "github.com/CrestNiraj12/jokefeed/domain"

// Classify maps a failed response status to an ErrorState.
// Unknown codes become UnclassifiedFailure.
func Classify(statusCode int) domain.ErrorState {
	switch statusCode {
	case 400, 403, 404, 413, 414, 429:
		return domain.Http4xx
	case 500, 523:
		return domain.Http5xx
	default:
		return domain.UnclassifiedFailure
	}
}
