package usecase

import "time"

func (uc *PricingUseCase) SetNow(now func() time.Time)        { uc.now = now }
func (uc *LedgerUseCase) SetNow(now func() time.Time)         { uc.now = now }
func (uc *InterestUseCase) SetNow(now func() time.Time)       { uc.now = now }
func (uc *ReconciliationUseCase) SetNow(now func() time.Time) { uc.now = now }
func (uc *StatsUseCase) SetNow(now func() time.Time)          { uc.now = now }
func (uc *CycleUseCase) SetNow(now func() time.Time)          { uc.now = now }
