package fake

// Config represents fake generator config
type Config struct {
	FFFHeader            string // framework header include path
	Suffix               string // fake file name suffix
	GenerateIncludeGuard bool   // synthesize guard when header has none
	CPlusPlus            bool   // wrap declarations with extern "C"
	MaxParams            int    // framework argument limit
}

// DefaultConfig returns default config
func DefaultConfig() *Config {
	return &Config{
		FFFHeader:            "fff.h",
		Suffix:               "_fake",
		GenerateIncludeGuard: true,
		CPlusPlus:            true,
		MaxParams:            20,
	}
}
