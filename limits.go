package aggpager

const (
	DefaultPage  = 1
	DefaultLimit = 10
	// MaxLimit caps the page size accepted by RawOptions.DecodeNormalized
	// when no explicit maximum is given.
	MaxLimit = 100
)

// IsNormalizedLimitMax reports the page size that should be used for limit
// and whether limit was already acceptable as given.
func IsNormalizedLimitMax(limit int, maxLimit int) (int, bool) {
	switch {
	case limit <= 0:
		return DefaultLimit, false
	case maxLimit > 0 && limit > maxLimit:
		return maxLimit, false
	default:
		return limit, true
	}
}

func NormalizeLimitMax(limit int, maxLimit int) int {
	ret, _ := IsNormalizedLimitMax(limit, maxLimit)
	return ret
}

func NormalizeLimit(limit int) int {
	return NormalizeLimitMax(limit, MaxLimit)
}

// NormalizePage replaces non-positive page numbers with DefaultPage.
func NormalizePage(page int) int {
	if page <= 0 {
		return DefaultPage
	}

	return page
}
