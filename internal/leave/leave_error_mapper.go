package leave

import (
	"errors"

	balanceerrors "go-leave/internal/balance/errors"
	leaveerrors "go-leave/internal/leave/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}
	return err
}

// mapLedgerError surfaces ledger failures as lifecycle conflicts.
func mapLedgerError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, balanceerrors.ErrInsufficientBalance):
		return leaveerrors.ErrInsufficientBalance
	case errors.Is(err, balanceerrors.ErrBalanceNotFound):
		return leaveerrors.ErrBalanceNotFound
	default:
		return err
	}
}
