package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWindowFor(t *testing.T) {
	asOf := date(2024, 3, 10)

	w, err := WindowFor(Daily, asOf)
	require.NoError(t, err)
	assert.Equal(t, Window{From: asOf, To: asOf}, w)

	w, err = WindowFor(Weekly, asOf)
	require.NoError(t, err)
	assert.Equal(t, Window{From: date(2024, 3, 3), To: asOf}, w)

	w, err = WindowFor(Monthly, asOf)
	require.NoError(t, err)
	assert.Equal(t, Window{From: date(2024, 2, 9), To: asOf}, w)

	_, err = WindowFor(Type("YEARLY"), asOf)
	assert.Error(t, err)
}
