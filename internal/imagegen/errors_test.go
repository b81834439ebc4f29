package imagegen

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
)

func apiError(status int, message string) error {
	return &openai.APIError{HTTPStatusCode: status, Message: message}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"unauthorized", apiError(http.StatusUnauthorized, "invalid api key"), ErrInvalidCredential},
		{"forbidden", apiError(http.StatusForbidden, "forbidden"), ErrInvalidCredential},
		{"rate limited", apiError(http.StatusTooManyRequests, "slow down"), ErrQuotaExceeded},
		{"billing", apiError(http.StatusPaymentRequired, "quota"), ErrQuotaExceeded},
		{"safety", apiError(http.StatusBadRequest, "rejected by safety system"), ErrSafetyBlocked},
		{"content policy", apiError(http.StatusBadRequest, "violates our content policy"), ErrSafetyBlocked},
		{"other 400", apiError(http.StatusBadRequest, "invalid size"), ErrUnknown},
		{"server error", apiError(http.StatusInternalServerError, "oops"), ErrUnknown},
		{"timeout", context.DeadlineExceeded, ErrNetwork},
		{"dns", &net.DNSError{Err: "no such host", IsTimeout: false}, ErrNetwork},
		{"plain error", errors.New("boom"), ErrUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, classify(tc.err), tc.want)
		})
	}
}

func TestGenErrorWrapping(t *testing.T) {
	err := wrapGenError("Generate", ErrQuotaExceeded, "429 from provider")
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	var genErr *GenError
	assert.ErrorAs(t, err, &genErr)
	assert.Equal(t, "Generate", genErr.Op)

	// Already-wrapped errors are passed through untouched.
	again := wrapGenError("Generate", err, "")
	assert.Same(t, err, again)

	assert.Nil(t, wrapGenError("Generate", nil, ""))
}

func TestNewServiceRequiresKey(t *testing.T) {
	_, err := NewService("")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}
