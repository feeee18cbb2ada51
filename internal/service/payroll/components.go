package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/payroll"
)

// resolvedComponents holds the per-bucket amounts after fixed/percent
// resolution, before any attendance proration.
type resolvedComponents struct {
	Earnings   map[string]decimal.Decimal
	Incentives map[string]decimal.Decimal
	Deductions map[string]decimal.Decimal
}

// ResolveComponents evaluates salary components in two explicit passes:
// every fixed item first, then every percent item against its base.
// Percent bases are either a fixed component key or the reserved
// "gross_salary", meaning the sum of fixed earnings and incentives.
// Resolution is therefore independent of array order.
func ResolveComponents(earnings, incentives, deductions []payroll.SalaryComponent) (resolvedComponents, error) {
	resolved := resolvedComponents{
		Earnings:   make(map[string]decimal.Decimal),
		Incentives: make(map[string]decimal.Decimal),
		Deductions: make(map[string]decimal.Decimal),
	}
	bases := make(map[string]decimal.Decimal)

	buckets := []struct {
		components []payroll.SalaryComponent
		amounts    map[string]decimal.Decimal
	}{
		{earnings, resolved.Earnings},
		{incentives, resolved.Incentives},
		{deductions, resolved.Deductions},
	}

	gross := decimal.Zero
	for i, bucket := range buckets {
		for _, c := range bucket.components {
			if c.Type != payroll.ComponentTypeFixed {
				continue
			}
			bucket.amounts[c.Key] = c.Value
			bases[c.Key] = c.Value
			if i < 2 { // deductions never feed gross
				gross = gross.Add(c.Value)
			}
		}
	}
	bases[payroll.BasedOnGross] = gross

	hundred := decimal.NewFromInt(100)
	for _, bucket := range buckets {
		for _, c := range bucket.components {
			if c.Type != payroll.ComponentTypePercent {
				continue
			}
			base, ok := bases[c.BasedOn]
			if !ok {
				return resolvedComponents{}, fmt.Errorf("component %q: %w", c.Key, payroll.ErrUnknownPercentBase)
			}
			bucket.amounts[c.Key] = base.Mul(c.Value).Div(hundred)
		}
	}

	return resolved, nil
}

// Prorate applies the attendance factor to every component amount,
// rounding each to two decimal places.
func (r resolvedComponents) Prorate(factor decimal.Decimal) resolvedComponents {
	return resolvedComponents{
		Earnings:   prorateAmounts(r.Earnings, factor),
		Incentives: prorateAmounts(r.Incentives, factor),
		Deductions: prorateAmounts(r.Deductions, factor),
	}
}

// Totals sums the buckets and derives gross and net.
func (r resolvedComponents) Totals() (totalEarnings, totalIncentives, totalDeductions, gross, net decimal.Decimal) {
	totalEarnings = sumAmounts(r.Earnings)
	totalIncentives = sumAmounts(r.Incentives)
	totalDeductions = sumAmounts(r.Deductions)
	gross = totalEarnings.Add(totalIncentives)
	net = gross.Sub(totalDeductions)
	return
}

func prorateAmounts(amounts map[string]decimal.Decimal, factor decimal.Decimal) map[string]decimal.Decimal {
	prorated := make(map[string]decimal.Decimal, len(amounts))
	for k, v := range amounts {
		prorated[k] = v.Mul(factor).Round(2)
	}
	return prorated
}

func sumAmounts(amounts map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range amounts {
		total = total.Add(v)
	}
	return total
}
