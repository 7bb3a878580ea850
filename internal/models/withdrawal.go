package models

import "fmt"

type WithdrawalRequest struct {
	Name    string           `json:"name" binding:"required"`
	Method  WithdrawalMethod `json:"method" binding:"required"`
	Amount  int64            `json:"amount" binding:"required,min=1"`
	Address string           `json:"address" binding:"required"`
}

func (r *WithdrawalRequest) Validate() error {
	switch r.Method {
	case WithdrawalMethodBinance, WithdrawalMethodPayeer, WithdrawalMethodUSDT:
	default:
		return fmt.Errorf("invalid payout method: %s", r.Method)
	}

	if r.Amount < 1 {
		return fmt.Errorf("withdrawal amount must be positive")
	}

	return nil
}
