package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CrestNiraj12/jokefeed/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		code int
		want domain.ErrorState
	}{
		{400, domain.Http4xx},
		{403, domain.Http4xx},
		{404, domain.Http4xx},
		{413, domain.Http4xx},
		{414, domain.Http4xx},
		{429, domain.Http4xx},
		{500, domain.Http5xx},
		{523, domain.Http5xx},
		{401, domain.UnclassifiedFailure},
		{501, domain.UnclassifiedFailure},
		{502, domain.UnclassifiedFailure},
		{200, domain.UnclassifiedFailure},
		{0, domain.UnclassifiedFailure},
		{-1, domain.UnclassifiedFailure},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Classify(tc.code), "code %d", tc.code)
	}
}
