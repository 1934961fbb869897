package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDividendEffective(t *testing.T) {
	exDate := time.Date(2020, 7, 10, 0, 0, 0, 0, time.UTC)

	executed := &Dividend{DivProc: DivExecuted, ExDate: exDate}
	assert.True(t, executed.Effective())

	// A plan is not effective until implemented.
	proposed := &Dividend{DivProc: DivProposed, ExDate: exDate}
	assert.False(t, proposed.Effective())

	// Executed but never assigned an ex-date cannot be replayed.
	noExDate := &Dividend{DivProc: DivExecuted}
	assert.False(t, noExDate.Effective())

	void := &Dividend{DivProc: DivVoid, ExDate: exDate}
	assert.False(t, void.Effective())
}
