package bitvec

const (
	// DefaultGrowthFactor is the capacity multiplier used when the word
	// slice has to be reallocated.
	DefaultGrowthFactor = 2.0

	// MinGrowthFactor is the smallest growth factor accepted. Anything lower
	// would break amortized O(1) appends.
	MinGrowthFactor = 1.5
)

// Option configures a BitSet.
type Option func(*options)

type options struct {
	maxWords uint
	growth   float64
}

func defaultOptions() options {
	return options{
		maxWords: maxAddressableWords,
		growth:   DefaultGrowthFactor,
	}
}

// WithMaxBits limits the logical length of the bitset to at least _n_ bits,
// rounded up to whole words. Mutations that would grow past the limit fail
// with ErrTooLarge. A zero value, or a value past what the platform can
// allocate, means the platform limit.
func WithMaxBits(n uint) Option {
	return func(o *options) {
		if n == 0 {
			o.maxWords = maxAddressableWords
			return
		}
		o.maxWords = min(wordsNeeded(n), maxAddressableWords)
	}
}

// WithGrowthFactor sets the capacity multiplier used on reallocation.
// Values below MinGrowthFactor are clamped.
func WithGrowthFactor(f float64) Option {
	return func(o *options) {
		if f < MinGrowthFactor {
			f = MinGrowthFactor
		}
		o.growth = f
	}
}
