package board

const TickRate = 20 // ticks per second

// SecsToTicks converts a duration in seconds to loop ticks.
func SecsToTicks(s float64) int {
	t := int(s * TickRate)
	if t < 1 {
		t = 1
	}
	return t
}

// Timing constants: all expressed in seconds, converted to ticks at init.
var (
	BlastDuration = SecsToTicks(0.6) // how long an explosion stays on screen
	StatusTimeout = SecsToTicks(4.0) // how long a status line stays in the HUD
)
