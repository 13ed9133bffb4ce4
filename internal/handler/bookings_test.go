package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParticipantIDs(t *testing.T) {
	assert.Equal(t, []string{"100"}, participantIDs("100", nil))
	assert.Equal(t, []string{"100", "200", "300"}, participantIDs("100", []string{"200", "300"}))
	assert.Equal(t, []string{"100", "200"}, participantIDs("100", []string{"", "200"}))
}
