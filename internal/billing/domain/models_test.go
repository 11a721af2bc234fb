package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBill(amount int64, due time.Time) Bill {
	return Bill{
		BillNo: 2000,
		Units:  250,
		Amount: amount,
		Status: StatusUnpaid,
		DueAt:  due,
	}
}

func TestRecordPayment(t *testing.T) {
	due := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("full payment settles the bill", func(t *testing.T) {
		bill := newBill(52_500, due)
		now := due.AddDate(0, 0, -1)

		require.NoError(t, bill.RecordPayment(52_500, now))
		assert.Equal(t, StatusPaid, bill.Status)
		require.NotNil(t, bill.PaidAt)
		assert.Equal(t, now, *bill.PaidAt)
	})

	t.Run("overpayment settles the bill", func(t *testing.T) {
		bill := newBill(52_500, due)

		require.NoError(t, bill.RecordPayment(60_000, due))
		assert.Equal(t, StatusPaid, bill.Status)
	})

	t.Run("short payment changes nothing", func(t *testing.T) {
		bill := newBill(52_500, due)

		err := bill.RecordPayment(52_499, due)
		assert.ErrorIs(t, err, ErrInsufficientPayment)
		assert.Equal(t, StatusUnpaid, bill.Status)
		assert.Nil(t, bill.PaidAt)
	})

	t.Run("late bill is settled the same way", func(t *testing.T) {
		bill := newBill(52_500, due)
		afterDue := due.AddDate(0, 0, 10)
		require.True(t, bill.ApplySurcharge(afterDue, 5_000))

		require.NoError(t, bill.RecordPayment(57_500, afterDue))
		assert.Equal(t, StatusPaid, bill.Status)
	})

	t.Run("late bill still requires the surcharged amount", func(t *testing.T) {
		bill := newBill(52_500, due)
		afterDue := due.AddDate(0, 0, 10)
		require.True(t, bill.ApplySurcharge(afterDue, 5_000))

		err := bill.RecordPayment(52_500, afterDue)
		assert.ErrorIs(t, err, ErrInsufficientPayment)
		assert.Equal(t, StatusLate, bill.Status)
	})
}

func TestApplySurcharge(t *testing.T) {
	due := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("escalates an unpaid bill past due", func(t *testing.T) {
		bill := newBill(52_500, due)
		afterDue := due.AddDate(0, 0, 1)

		assert.True(t, bill.ApplySurcharge(afterDue, 5_000))
		assert.Equal(t, StatusLate, bill.Status)
		assert.Equal(t, int64(57_500), bill.Amount)
	})

	t.Run("no-op before the due date", func(t *testing.T) {
		bill := newBill(52_500, due)

		assert.False(t, bill.ApplySurcharge(due, 5_000))
		assert.Equal(t, StatusUnpaid, bill.Status)
		assert.Equal(t, int64(52_500), bill.Amount)
	})

	t.Run("fee never stacks on repeated sweeps", func(t *testing.T) {
		bill := newBill(52_500, due)
		afterDue := due.AddDate(0, 0, 1)

		assert.True(t, bill.ApplySurcharge(afterDue, 5_000))
		assert.False(t, bill.ApplySurcharge(afterDue.AddDate(0, 0, 7), 5_000))
		assert.Equal(t, int64(57_500), bill.Amount)
	})

	t.Run("paid bills are never escalated", func(t *testing.T) {
		bill := newBill(52_500, due)
		require.NoError(t, bill.RecordPayment(52_500, due))

		assert.False(t, bill.ApplySurcharge(due.AddDate(0, 0, 30), 5_000))
		assert.Equal(t, StatusPaid, bill.Status)
	})
}

func TestOverdue(t *testing.T) {
	due := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	bill := newBill(52_500, due)

	assert.False(t, bill.Overdue(due))
	assert.True(t, bill.Overdue(due.Add(time.Second)))
}
