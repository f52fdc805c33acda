// Package analysis characterizes recorded simulator telemetry.
//
//   - [PowerSpectrum]: magnitude spectrum of a count or Kc column
//   - [DominantPeriod]: period, in ticks, of the strongest oscillation
//   - [Summarize]: settling tick, mean Kc and target crossings
//   - [Trajectory]: composition path (A against AB) rendered as ASCII
//
// # Example
//
//	kc := sim.Series().Column(telemetry.ColumnKc)
//	period, ok := analysis.DominantPeriod(kc)
//	if ok {
//	    fmt.Printf("Kc flaps every %.1f ticks\n", period)
//	}
package analysis
