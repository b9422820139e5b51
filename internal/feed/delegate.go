package feed

// IndexRange is a half-open range [Start, End) of item indices.
type IndexRange struct {
	Start int
	End   int
}

// Len returns the number of indices in the range.
func (r IndexRange) Len() int {
	return r.End - r.Start
}

// Delegate receives feed events. Calls arrive on the feed's queue.
type Delegate interface {
	// PageLoaded reports the indices appended for page.
	PageLoaded(r IndexRange, page int)
	// LoadFailed reports a failed load. The feed state is unchanged.
	LoadFailed(err error)
}

// DelegateFuncs adapts plain functions to Delegate. Nil fields are skipped.
type DelegateFuncs struct {
	OnPageLoaded func(r IndexRange, page int)
	OnLoadFailed func(err error)
}

func (d DelegateFuncs) PageLoaded(r IndexRange, page int) {
	if d.OnPageLoaded != nil {
		d.OnPageLoaded(r, page)
	}
}

func (d DelegateFuncs) LoadFailed(err error) {
	if d.OnLoadFailed != nil {
		d.OnLoadFailed(err)
	}
}
