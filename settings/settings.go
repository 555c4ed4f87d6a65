package settings

// Settings configure an optimization session.
type Settings struct {
	// FirstFrame is where the searched body starts; everything before it
	// is the untouched prefix.
	FirstFrame int

	// Temperature is the starting annealing temperature.
	Temperature float32
	// CoolingRate multiplies the temperature each time the iteration
	// budget runs out.
	CoolingRate float32
	// MaxIterations is the iteration budget per temperature.
	MaxIterations int

	// MutationsPerAttempt is how many mutations each candidate gets.
	MutationsPerAttempt int
	// SingleFrame selects single-frame mutation instead of whole-segment
	// mutation.
	SingleFrame bool
	// FrameLimit caps how deep into the script single-frame mutations
	// reach; zero means no cap.
	FrameLimit int

	// Workers sizes the in-process simulation pool; zero means one per
	// CPU.
	Workers int
}

// Default returns the stock search settings.
func Default() Settings {
	return Settings{
		Temperature:         100,
		CoolingRate:         0.97,
		MaxIterations:       1000,
		MutationsPerAttempt: 6,
	}
}

// Fill replaces zero values with their defaults.
func (s Settings) Fill() Settings {
	d := Default()
	if s.Temperature == 0 {
		s.Temperature = d.Temperature
	}
	if s.CoolingRate == 0 {
		s.CoolingRate = d.CoolingRate
	}
	if s.MaxIterations == 0 {
		s.MaxIterations = d.MaxIterations
	}
	if s.MutationsPerAttempt == 0 {
		s.MutationsPerAttempt = d.MutationsPerAttempt
	}
	return s
}
