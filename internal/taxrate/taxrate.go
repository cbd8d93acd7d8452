// Package taxrate holds the externally-configured statutory rate table used
// to derive payroll deductions. Rates ship with sane defaults and can be
// overridden from a YAML file.
package taxrate

import (
	"sync"

	"github.com/fsnotify/fsnotify"
	payrolldomain "github.com/hrplane/hrplane/internal/payroll/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Slab is one progressive bracket. UpTo of zero means no upper bound.
type Slab struct {
	UpTo   decimal.Decimal
	Rate   decimal.Decimal
	Amount decimal.Decimal
}

// Rates is the statutory deduction rate set applied to a monthly gross.
type Rates struct {
	PFEmployeeRate decimal.Decimal
	PFEmployerRate decimal.Decimal
	PFWageCeiling  decimal.Decimal

	ESIEmployeeRate decimal.Decimal
	ESIEmployerRate decimal.Decimal
	ESIWageCeiling  decimal.Decimal

	ProfessionalTaxSlabs []Slab
	TDSSlabs             []Slab
}

// Table serves the current rate set. Reads take a lock so the table can be
// reloaded while payroll runs are in flight.
type Table struct {
	mu    sync.RWMutex
	rates Rates
	log   *zap.Logger
}

type fileRates struct {
	PFEmployeeRate  float64 `mapstructure:"pf_employee_rate"`
	PFEmployerRate  float64 `mapstructure:"pf_employer_rate"`
	PFWageCeiling   float64 `mapstructure:"pf_wage_ceiling"`
	ESIEmployeeRate float64 `mapstructure:"esi_employee_rate"`
	ESIEmployerRate float64 `mapstructure:"esi_employer_rate"`
	ESIWageCeiling  float64 `mapstructure:"esi_wage_ceiling"`

	ProfessionalTaxSlabs []fileSlab `mapstructure:"professional_tax_slabs"`
	TDSSlabs             []fileSlab `mapstructure:"tds_slabs"`
}

type fileSlab struct {
	UpTo   float64 `mapstructure:"up_to"`
	Rate   float64 `mapstructure:"rate"`
	Amount float64 `mapstructure:"amount"`
}

// Load builds the table from the optional YAML file, falling back to
// defaults for anything unset.
func Load(file string, log *zap.Logger) (*Table, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var raw fileRates
	if err := v.Unmarshal(&raw); err != nil {
		return nil, err
	}

	table := &Table{
		rates: fromFile(raw),
		log:   log.Named("taxrate"),
	}

	if file != "" {
		v.OnConfigChange(func(in fsnotify.Event) {
			var updated fileRates
			if err := v.Unmarshal(&updated); err != nil {
				table.log.Warn("failed to reload tax rates", zap.Error(err))
				return
			}
			table.mu.Lock()
			table.rates = fromFile(updated)
			table.mu.Unlock()
			table.log.Info("tax rate table reloaded", zap.String("file", in.Name))
		})
		v.WatchConfig()
	}

	return table, nil
}

// Rates returns a snapshot of the current rate set.
func (t *Table) Rates() Rates {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rates
}

// DeriveDeductions computes the statutory DeductionSet for a monthly gross.
// PF applies to gross capped at the wage ceiling; ESI applies only below its
// ceiling; TDS is annualized across the slabs then divided back to a month.
func (t *Table) DeriveDeductions(monthlyGross decimal.Decimal) payrolldomain.DeductionSet {
	r := t.Rates()
	var out payrolldomain.DeductionSet

	pfBase := monthlyGross
	if r.PFWageCeiling.IsPositive() && pfBase.GreaterThan(r.PFWageCeiling) {
		pfBase = r.PFWageCeiling
	}
	out.PFEmployee = pfBase.Mul(r.PFEmployeeRate).Round(2)
	out.PFEmployer = pfBase.Mul(r.PFEmployerRate).Round(2)

	if !r.ESIWageCeiling.IsPositive() || monthlyGross.LessThanOrEqual(r.ESIWageCeiling) {
		out.ESIEmployee = monthlyGross.Mul(r.ESIEmployeeRate).Round(2)
		out.ESIEmployer = monthlyGross.Mul(r.ESIEmployerRate).Round(2)
	}

	out.ProfessionalTax = slabAmount(r.ProfessionalTaxSlabs, monthlyGross)

	annual := monthlyGross.Mul(decimal.NewFromInt(12))
	annualTDS := progressiveTax(r.TDSSlabs, annual)
	out.TDS = annualTDS.Div(decimal.NewFromInt(12)).Round(2)

	return out
}

func slabAmount(slabs []Slab, value decimal.Decimal) decimal.Decimal {
	for _, slab := range slabs {
		if slab.UpTo.IsZero() || value.LessThanOrEqual(slab.UpTo) {
			return slab.Amount
		}
	}
	return decimal.Zero
}

func progressiveTax(slabs []Slab, annual decimal.Decimal) decimal.Decimal {
	tax := decimal.Zero
	lower := decimal.Zero
	for _, slab := range slabs {
		upper := slab.UpTo
		if upper.IsZero() || annual.LessThanOrEqual(upper) {
			tax = tax.Add(annual.Sub(lower).Mul(slab.Rate))
			return tax
		}
		tax = tax.Add(upper.Sub(lower).Mul(slab.Rate))
		lower = upper
	}
	return tax
}

func fromFile(raw fileRates) Rates {
	rates := Rates{
		PFEmployeeRate:  decimal.NewFromFloat(raw.PFEmployeeRate),
		PFEmployerRate:  decimal.NewFromFloat(raw.PFEmployerRate),
		PFWageCeiling:   decimal.NewFromFloat(raw.PFWageCeiling),
		ESIEmployeeRate: decimal.NewFromFloat(raw.ESIEmployeeRate),
		ESIEmployerRate: decimal.NewFromFloat(raw.ESIEmployerRate),
		ESIWageCeiling:  decimal.NewFromFloat(raw.ESIWageCeiling),
	}
	for _, slab := range raw.ProfessionalTaxSlabs {
		rates.ProfessionalTaxSlabs = append(rates.ProfessionalTaxSlabs, Slab{
			UpTo:   decimal.NewFromFloat(slab.UpTo),
			Amount: decimal.NewFromFloat(slab.Amount),
		})
	}
	for _, slab := range raw.TDSSlabs {
		rates.TDSSlabs = append(rates.TDSSlabs, Slab{
			UpTo: decimal.NewFromFloat(slab.UpTo),
			Rate: decimal.NewFromFloat(slab.Rate),
		})
	}
	return rates
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pf_employee_rate", 0.12)
	v.SetDefault("pf_employer_rate", 0.12)
	v.SetDefault("pf_wage_ceiling", 15000)
	v.SetDefault("esi_employee_rate", 0.0075)
	v.SetDefault("esi_employer_rate", 0.0325)
	v.SetDefault("esi_wage_ceiling", 21000)
	v.SetDefault("professional_tax_slabs", []map[string]any{
		{"up_to": 10000, "amount": 0},
		{"up_to": 15000, "amount": 150},
		{"up_to": 0, "amount": 200},
	})
	v.SetDefault("tds_slabs", []map[string]any{
		{"up_to": 300000, "rate": 0},
		{"up_to": 700000, "rate": 0.05},
		{"up_to": 1000000, "rate": 0.10},
		{"up_to": 1200000, "rate": 0.15},
		{"up_to": 1500000, "rate": 0.20},
		{"up_to": 0, "rate": 0.30},
	})
}
