package calculation

import "time"

// seedFunc returns the batch seed used when a Monte Carlo request does not
// carry one (override for deterministic tests).
var seedFunc = func() int64 { return time.Now().UnixNano() }

// SetSeedFunc overrides the seed provider (use only in tests).
func SetSeedFunc(f func() int64) { seedFunc = f }
