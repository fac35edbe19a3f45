package services

import (
	logger "github.com/Bparsons0904/goLogger"

	"github.com/shopspring/decimal"
)

// EMIRequest is one equated-monthly-installment calculation request.
type EMIRequest struct {
	Principal    int64   `json:"principal"`
	AnnualRate   float64 `json:"annualRate"`
	TenureMonths int     `json:"tenureMonths"`
}

// EMIResult is the schedule summary for a loan quote.
type EMIResult struct {
	MonthlyPayment string `json:"monthlyPayment"`
	TotalPayment   string `json:"totalPayment"`
	TotalInterest  string `json:"totalInterest"`
}

// EMIService computes loan installments with exact decimal arithmetic.
type EMIService struct {
	log logger.Logger
}

func NewEMIService() *EMIService {
	return &EMIService{
		log: logger.New("emiService"),
	}
}

// Calculate applies the standard EMI formula
// P * r * (1+r)^n / ((1+r)^n - 1) with r as the monthly rate. A zero rate
// degenerates to straight division.
func (s *EMIService) Calculate(req EMIRequest) (*EMIResult, error) {
	log := s.log.Function("Calculate")

	if req.Principal <= 0 {
		return nil, log.Error("principal must be positive", "principal", req.Principal)
	}
	if req.TenureMonths <= 0 {
		return nil, log.Error("tenure must be positive", "tenureMonths", req.TenureMonths)
	}
	if req.AnnualRate < 0 {
		return nil, log.Error("rate must not be negative", "annualRate", req.AnnualRate)
	}

	principal := decimal.NewFromInt(req.Principal)
	months := decimal.NewFromInt(int64(req.TenureMonths))

	var monthly decimal.Decimal
	if req.AnnualRate == 0 {
		monthly = principal.Div(months)
	} else {
		rate := decimal.NewFromFloat(req.AnnualRate).
			Div(decimal.NewFromInt(12)).
			Div(decimal.NewFromInt(100))
		factor := rate.Add(decimal.NewFromInt(1)).Pow(months)
		monthly = principal.Mul(rate).Mul(factor).Div(factor.Sub(decimal.NewFromInt(1)))
	}

	monthly = monthly.Round(2)
	total := monthly.Mul(months).Round(2)
	interest := total.Sub(principal).Round(2)

	return &EMIResult{
		MonthlyPayment: monthly.StringFixed(2),
		TotalPayment:   total.StringFixed(2),
		TotalInterest:  interest.StringFixed(2),
	}, nil
}
