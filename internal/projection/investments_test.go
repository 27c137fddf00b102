package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thall/longview/internal/domain"
)

func allocationConfig() *domain.InvestmentAllocationConfig {
	return &domain.InvestmentAllocationConfig{
		LISAAllowance: d("4000"),
		ISAAllowance:  d("20000"),
		SIPPAllowance: d("10000"),
		LISABonusRate: d("0.25"),
	}
}

func TestAllocateSavingsFillsWrappersInOrder(t *testing.T) {
	split := allocateSavings(d("30000"), allocationConfig(), d("1"))

	assert.True(t, split.lisa.Equal(d("4000")), "lisa %s", split.lisa)
	// the lisa contribution eats into the overall isa allowance
	assert.True(t, split.isa.Equal(d("16000")), "isa %s", split.isa)
	assert.True(t, split.sipp.Equal(d("10000")), "sipp %s", split.sipp)
	assert.True(t, split.gia.IsZero(), "gia %s", split.gia)
	assert.True(t, split.bonus.Equal(d("1000")), "bonus %s", split.bonus)
}

func TestAllocateSavingsOverflowsToGIA(t *testing.T) {
	split := allocateSavings(d("50000"), allocationConfig(), d("1"))

	assert.True(t, split.gia.Equal(d("20000")), "gia %s", split.gia)
	total := split.lisa.Add(split.isa).Add(split.sipp).Add(split.gia)
	assert.True(t, total.Equal(d("50000")))
}

func TestAllocateSavingsNegativeSavingsAllocateNothing(t *testing.T) {
	split := allocateSavings(d("-5000"), allocationConfig(), d("1"))

	assert.True(t, split.lisa.IsZero())
	assert.True(t, split.isa.IsZero())
	assert.True(t, split.sipp.IsZero())
	assert.True(t, split.gia.IsZero())
	assert.True(t, split.bonus.IsZero())
}

func TestAllocateSavingsConvertsAllowances(t *testing.T) {
	// allowances declared in a currency worth half a base unit
	split := allocateSavings(d("10000"), allocationConfig(), d("0.5"))

	assert.True(t, split.lisa.Equal(d("2000")), "lisa %s", split.lisa)
	assert.True(t, split.isa.Equal(d("8000")), "isa %s", split.isa)
	assert.True(t, split.sipp.IsZero(), "sipp %s", split.sipp)
}
