package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateTicketRequest_AssigneeTriState(t *testing.T) {
	var absent UpdateTicketRequest
	require.NoError(t, json.Unmarshal([]byte(`{"status":"closed"}`), &absent))
	assert.False(t, absent.AssigneeID.Set)
	assert.Equal(t, "closed", string(absent.Status))

	var cleared UpdateTicketRequest
	require.NoError(t, json.Unmarshal([]byte(`{"assignee_id":null}`), &cleared))
	assert.True(t, cleared.AssigneeID.Set)
	assert.Nil(t, cleared.AssigneeID.Value)

	var assigned UpdateTicketRequest
	require.NoError(t, json.Unmarshal([]byte(`{"assignee_id":"abc"}`), &assigned))
	assert.True(t, assigned.AssigneeID.Set)
	require.NotNil(t, assigned.AssigneeID.Value)
	assert.Equal(t, "abc", *assigned.AssigneeID.Value)

	var wrongType UpdateTicketRequest
	assert.Error(t, json.Unmarshal([]byte(`{"assignee_id":42}`), &wrongType))
}
