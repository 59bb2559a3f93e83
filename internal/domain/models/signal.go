package models

// Signal is the traffic-light color of an indicator card.
type Signal string

const (
	SignalGreen  Signal = "green"
	SignalYellow Signal = "yellow"
	SignalRed    Signal = "red"
)

// Thresholds for signal computation. Band bounds are on the 0-100 score,
// move bounds on the percent change.
const (
	BandLow  = 25.0
	BandHigh = 75.0
	BigMove  = 1.0
)

// ComputeSignal applies the polarity rule to a value and its percent change.
//
//	band:    value < 25 or value > 75 is red, else green
//	inverse: change > 1 red, change > 0 yellow, else green
//	direct:  change < -1 red, change < 0 yellow, else green
func ComputeSignal(p Polarity, value, change float64) Signal {
	switch p {
	case PolarityBand:
		if value < BandLow || value > BandHigh {
			return SignalRed
		}
		return SignalGreen
	case PolarityInverse:
		switch {
		case change > BigMove:
			return SignalRed
		case change > 0:
			return SignalYellow
		default:
			return SignalGreen
		}
	default:
		switch {
		case change < -BigMove:
			return SignalRed
		case change < 0:
			return SignalYellow
		default:
			return SignalGreen
		}
	}
}
