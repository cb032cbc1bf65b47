package customers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	valid := []string{"+911234567890", "911234567890", "123456789", "+123456789012345"}
	for _, p := range valid {
		assert.NoError(t, ValidatePhone(p), p)
	}

	invalid := []string{"", "12345678", "+12-345-6789", "abcdefghij", "+12345678901234567"}
	for _, p := range invalid {
		assert.ErrorIs(t, ValidatePhone(p), ErrBadPhone, p)
	}
}

func TestScopeCanSee(t *testing.T) {
	staff := Scope{Staff: true}
	assert.True(t, staff.CanSee(42))

	cust := Scope{CustomerID: 7}
	assert.True(t, cust.CanSee(7))
	assert.False(t, cust.CanSee(42))
}
