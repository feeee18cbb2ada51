package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(key string, value int64) payroll.SalaryComponent {
	return payroll.SalaryComponent{Key: key, Type: payroll.ComponentTypeFixed, Value: decimal.NewFromInt(value)}
}

func percent(key string, value int64, basedOn string) payroll.SalaryComponent {
	return payroll.SalaryComponent{Key: key, Type: payroll.ComponentTypePercent, Value: decimal.NewFromInt(value), BasedOn: basedOn}
}

// Fixed basic of 15000 with HRA at 40% of basic resolves HRA to 6000;
// a PF deduction at 10% of gross sees gross = 15000 + 6000 fixed
// earnings and incentives only, not 21000 with HRA folded in.
func TestResolveComponents_FixedThenPercent(t *testing.T) {
	earnings := []payroll.SalaryComponent{
		fixed("basic_salary", 15000),
		percent("hra", 40, "basic_salary"),
	}
	incentives := []payroll.SalaryComponent{fixed("conveyance", 2000)}
	deductions := []payroll.SalaryComponent{percent("pf", 10, payroll.BasedOnGross)}

	resolved, err := ResolveComponents(earnings, incentives, deductions)
	require.NoError(t, err)

	assert.Equal(t, "15000", resolved.Earnings["basic_salary"].String())
	assert.Equal(t, "6000", resolved.Earnings["hra"].String())
	assert.Equal(t, "2000", resolved.Incentives["conveyance"].String())
	// gross base = 15000 + 2000 fixed items, percent items excluded
	assert.Equal(t, "1700", resolved.Deductions["pf"].String())
}

func TestResolveComponents_OrderIndependent(t *testing.T) {
	// Percent listed before its base still resolves.
	earnings := []payroll.SalaryComponent{
		percent("hra", 40, "basic_salary"),
		fixed("basic_salary", 15000),
	}

	resolved, err := ResolveComponents(earnings, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "6000", resolved.Earnings["hra"].String())
}

func TestResolveComponents_UnknownBase(t *testing.T) {
	earnings := []payroll.SalaryComponent{
		fixed("basic_salary", 15000),
		percent("hra", 40, "nonexistent"),
	}

	_, err := ResolveComponents(earnings, nil, nil)
	assert.ErrorIs(t, err, payroll.ErrUnknownPercentBase)
}

func TestResolveComponents_PercentOfDeduction(t *testing.T) {
	// A fixed deduction is a valid percent base even though it never
	// feeds gross.
	deductions := []payroll.SalaryComponent{
		fixed("loan_emi", 5000),
		percent("loan_interest", 2, "loan_emi"),
	}

	resolved, err := ResolveComponents(nil, nil, deductions)
	require.NoError(t, err)
	assert.Equal(t, "100", resolved.Deductions["loan_interest"].String())
}

func TestResolveComponents_GrossExcludesDeductions(t *testing.T) {
	earnings := []payroll.SalaryComponent{fixed("basic_salary", 10000)}
	deductions := []payroll.SalaryComponent{
		fixed("tds", 4000),
		percent("pf", 10, payroll.BasedOnGross),
	}

	resolved, err := ResolveComponents(earnings, nil, deductions)
	require.NoError(t, err)
	assert.Equal(t, "1000", resolved.Deductions["pf"].String())
}

func TestProrate_RoundsEachAmount(t *testing.T) {
	resolved, err := ResolveComponents(
		[]payroll.SalaryComponent{
			{Key: "basic_salary", Type: payroll.ComponentTypeFixed, Value: decimal.RequireFromString("12345.67")},
		}, nil, nil)
	require.NoError(t, err)

	prorated := resolved.Prorate(decimal.RequireFromString("0.5"))
	assert.Equal(t, "6172.84", prorated.Earnings["basic_salary"].String())
}

func TestTotals(t *testing.T) {
	resolved, err := ResolveComponents(
		[]payroll.SalaryComponent{fixed("basic_salary", 15000), percent("hra", 40, "basic_salary")},
		[]payroll.SalaryComponent{fixed("conveyance", 2000)},
		[]payroll.SalaryComponent{percent("pf", 10, payroll.BasedOnGross)},
	)
	require.NoError(t, err)

	totalEarnings, totalIncentives, totalDeductions, gross, net := resolved.Totals()
	assert.Equal(t, "21000", totalEarnings.String())
	assert.Equal(t, "2000", totalIncentives.String())
	assert.Equal(t, "1700", totalDeductions.String())
	assert.Equal(t, "23000", gross.String())
	assert.Equal(t, "21300", net.String())
}

// A 0.9 attendance factor scales every component and therefore the net.
func TestProrate_ScalesNet(t *testing.T) {
	resolved, err := ResolveComponents(
		[]payroll.SalaryComponent{fixed("basic_salary", 15000), percent("hra", 40, "basic_salary")},
		nil,
		[]payroll.SalaryComponent{fixed("tds", 1000)},
	)
	require.NoError(t, err)

	prorated := resolved.Prorate(decimal.RequireFromString("0.9"))
	_, _, _, _, net := prorated.Totals()
	// (15000 + 6000 - 1000) * 0.9
	assert.Equal(t, "18000", net.String())
}
