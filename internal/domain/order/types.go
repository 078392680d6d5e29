package order

import "errors"

var (
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrNoFurtherAdvance  = errors.New("order is already in a final status")
	ErrNotCancellable    = errors.New("order can no longer be cancelled")
	ErrNotReturnable     = errors.New("only delivered orders can be returned")
)

// Status is the order lifecycle state. The processing sequence is strictly
// linear, one step at a time: pending, packed, delivering, delivered.
// cancelled and returned are side branches, not part of the sequence.
type Status string

const (
	StatusPending    Status = "pending"
	StatusPacked     Status = "packed"
	StatusDelivering Status = "delivering"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusReturned   Status = "returned"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPacked, StatusDelivering, StatusDelivered,
		StatusCancelled, StatusReturned:
		return true
	default:
		return false
	}
}

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Next returns the following status in the processing sequence. Skipping
// steps is not allowed; callers advance one step per call.
func (s Status) Next() (Status, error) {
	switch s {
	case StatusPending:
		return StatusPacked, nil
	case StatusPacked:
		return StatusDelivering, nil
	case StatusDelivering:
		return StatusDelivered, nil
	case StatusDelivered, StatusCancelled, StatusReturned:
		return "", ErrNoFurtherAdvance
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) CanCancel() bool {
	switch s {
	case StatusPending, StatusPacked, StatusDelivering:
		return true
	default:
		return false
	}
}

func (s Status) CanReturn() bool {
	return s == StatusDelivered
}

func (s Status) IsFinal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusReturned:
		return true
	default:
		return false
	}
}
