package sim

// ArrivalGenerator yields patient arrival offsets lazily.
// Patient 1 arrives at offset 0; each later gap is a clamped normal draw
// around the configured mean interval.
type ArrivalGenerator struct {
	src     NormalSource
	mean    float64
	sd      float64
	horizon int64
	cap     int

	emitted int
	last    int64
	stop    Termination // empty while more arrivals may follow
}

// NewArrivalGenerator creates a generator bounded by the shift window and patient cap.
func NewArrivalGenerator(cfg ShiftConfig, src NormalSource) *ArrivalGenerator {
	return &ArrivalGenerator{
		src:     src,
		mean:    cfg.AvgArrivalInterval,
		sd:      cfg.StdDevMinutes,
		horizon: cfg.ShiftDurationMinutes,
		cap:     cfg.PatientCap,
	}
}

// Next returns the next arrival offset, or ok=false once the patient cap is reached
// or the next arrival would fall at or past the end of the shift. The overflowing
// patient is never emitted, and the sequence stays exhausted afterwards.
func (g *ArrivalGenerator) Next() (offset int64, ok bool) {
	if g.stop != "" {
		return 0, false
	}
	if g.emitted >= g.cap {
		g.stop = TerminationPatientCap
		return 0, false
	}

	next := int64(0)
	if g.emitted > 0 {
		next = g.last + g.src.NormalInt(g.mean, g.sd, MinInterArrivalGap)
	}
	if next >= g.horizon {
		g.stop = TerminationShiftComplete
		return 0, false
	}

	g.emitted++
	g.last = next
	return next, true
}

// Emitted returns how many arrivals have been produced so far.
func (g *ArrivalGenerator) Emitted() int {
	return g.emitted
}

// Exhausted reports why the sequence ended; empty if it has not ended yet.
func (g *ArrivalGenerator) Exhausted() Termination {
	return g.stop
}
