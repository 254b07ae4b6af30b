package factory

import (
	"sort"

	"liquidityFactory/internal/model"
)

const (
	// MaxFee is the exclusive upper bound for a fee amount, in hundredths of a basis point.
	MaxFee uint32 = 1_000_000
	// MaxTickSpacing is the exclusive upper bound for a tick spacing.
	MaxTickSpacing int32 = 16384
)

// DefaultFeeTiers returns the conventional 0.05%, 0.3% and 1% tiers.
func DefaultFeeTiers() []model.FeeTier {
	return []model.FeeTier{
		{Fee: 500, TickSpacing: 10},
		{Fee: 3000, TickSpacing: 60},
		{Fee: 10000, TickSpacing: 200},
	}
}

// FeeTierRegistry maps fee amounts to tick spacings. A spacing of 0 means the
// fee amount is not enabled. Tiers are never removed.
type FeeTierRegistry struct {
	spacing map[uint32]int32
}

func NewFeeTierRegistry() *FeeTierRegistry {
	return &FeeTierRegistry{spacing: make(map[uint32]int32)}
}

// Enable records fee -> tickSpacing. It reports whether the registry changed;
// enabling an existing tier with the same spacing is a no-op.
func (r *FeeTierRegistry) Enable(fee uint32, tickSpacing int32) (bool, error) {
	if fee >= MaxFee {
		return false, ErrInvalidFee
	}
	if tickSpacing <= 0 || tickSpacing >= MaxTickSpacing {
		return false, ErrInvalidTickSpacing
	}
	if current, ok := r.spacing[fee]; ok {
		if current == tickSpacing {
			return false, nil
		}
		return false, ErrFeeAmountEnabled
	}
	r.spacing[fee] = tickSpacing
	return true, nil
}

// TickSpacing returns the spacing for fee, or 0 if it was never enabled.
func (r *FeeTierRegistry) TickSpacing(fee uint32) int32 {
	return r.spacing[fee]
}

// Tiers lists the enabled tiers ordered by fee.
func (r *FeeTierRegistry) Tiers() []model.FeeTier {
	out := make([]model.FeeTier, 0, len(r.spacing))
	for fee, spacing := range r.spacing {
		out = append(out, model.FeeTier{Fee: fee, TickSpacing: spacing})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fee < out[j].Fee })
	return out
}
