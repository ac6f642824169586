package account

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Transfer moves amount from src to dst as one atomic operation. Both
// account locks are held for the whole debit/credit, acquired in ascending
// account-number order so concurrent opposite-direction transfers cannot
// deadlock. Every precondition - source activity, funds, per-type limits,
// fee coverage, destination activity - is validated before either balance
// changes, so a failed transfer leaves both accounts untouched.
func Transfer(src, dst Account, amount decimal.Decimal) error {
	if src == nil || dst == nil {
		return fmt.Errorf("%w: destination account does not exist", ErrInvalidAccount)
	}

	if src.Number() == dst.Number() {
		src.acquire()
		defer src.release()
		return transferLocked(src, dst, amount)
	}

	first, second := src, dst
	if second.Number() < first.Number() {
		first, second = second, first
	}
	first.acquire()
	defer first.release()
	second.acquire()
	defer second.release()

	return transferLocked(src, dst, amount)
}

func transferLocked(src, dst Account, amount decimal.Decimal) error {
	if err := src.prepareTransferOutLocked(amount); err != nil {
		return err
	}
	if err := dst.canReceiveTransferLocked(); err != nil {
		return err
	}

	src.commitTransferOutLocked(amount, dst.Number())
	dst.commitReceiveTransferLocked(amount, src.Number())
	return nil
}
