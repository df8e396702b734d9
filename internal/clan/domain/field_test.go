package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateRequestDistinguishesAbsentFromNull(t *testing.T) {
	var req UpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"description": null, "tag": "AQC", "owner": 7}`), &req))

	assert.False(t, req.Name.Set)
	assert.True(t, req.Description.IsNull())
	assert.Nil(t, req.Description.Ptr())
	assert.Equal(t, Value("AQC"), req.Tag)
	assert.Equal(t, int64(7), *req.Owner.Ptr())
	assert.False(t, req.JoinMethod.Set)
	assert.False(t, req.Empty())
}

func TestUpdateRequestEmptyBody(t *testing.T) {
	var req UpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
	assert.True(t, req.Empty())
}

func TestFieldRejectsWrongType(t *testing.T) {
	var req UpdateRequest
	assert.Error(t, json.Unmarshal([]byte(`{"owner": "seven"}`), &req))
}

func TestStatusFilterResolve(t *testing.T) {
	status, excludeDeleted := Filter{}.Status.Resolve()
	require.NotNil(t, status)
	assert.Equal(t, StatusActive, *status)
	assert.False(t, excludeDeleted)

	status, excludeDeleted = StatusAny.Resolve()
	assert.Nil(t, status)
	assert.False(t, excludeDeleted)

	status, excludeDeleted = StatusNotDeleted.Resolve()
	assert.Nil(t, status)
	assert.True(t, excludeDeleted)

	status, _ = StatusIs(StatusDeleted).Resolve()
	require.NotNil(t, status)
	assert.Equal(t, StatusDeleted, *status)
}

func TestEnums(t *testing.T) {
	assert.True(t, JoinMethodInviteOnly.Valid())
	assert.False(t, JoinMethod("closed").Valid())
	assert.True(t, StatusDeactivated.Valid())
	assert.False(t, Status("archived").Valid())
}
