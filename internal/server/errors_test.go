package server

import (
	"errors"
	"fmt"
	"testing"

	clandomain "github.com/smallbiznis/clans/internal/clan/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	cases := []struct {
		err     error
		errType string
		code    string
	}{
		{clandomain.ErrNotFound, "not_found", "clans.not_found"},
		{ErrNotFound, "not_found", "not_found"},
		{clandomain.ErrNameExists, "conflict", "clans.name_exists"},
		{clandomain.ErrCreateContended, "conflict", "clans.cannot_create"},
		{failed(msgCreateFailed, clandomain.ErrInvalidTag), "validation_error", "clans.invalid_tag"},
		{fmt.Errorf("%w: boom", clandomain.ErrCannotCreate), "internal_error", "clans.cannot_create"},
		{errors.New("dial tcp: refused"), "internal_error", "internal_error"},
	}
	for _, tc := range cases {
		errType, code := classifyError(tc.err)
		assert.Equal(t, tc.errType, errType, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}
