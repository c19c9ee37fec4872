package usedtokens_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hiddentag/atpm/usedtokens"
)

func TestCheckAndMark(t *testing.T) {
	s := usedtokens.New()

	assert.False(t, s.CheckAndMark([]byte("token-a")), "first presentation should not be flagged as spent")
	assert.True(t, s.CheckAndMark([]byte("token-a")), "second presentation of the same token must be flagged")
	assert.False(t, s.CheckAndMark([]byte("token-b")), "a distinct token is unaffected by token-a's state")
}
