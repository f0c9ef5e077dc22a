package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Provider errors
	ErrProviderParse  = fmt.Errorf("malformed provider output")
	ErrProviderFailed = fmt.Errorf("provider invocation failed")
	ErrAgeRestricted  = fmt.Errorf("age-restricted video")

	// Pipeline errors
	ErrPlaylistEmpty  = fmt.Errorf("playlist has no tracks")
	ErrTagWrite       = fmt.Errorf("tag write failed")
	ErrArtworkMux     = fmt.Errorf("artwork mux failed")
	ErrReportWrite    = fmt.Errorf("report write failed")
	ErrCacheDisabled  = fmt.Errorf("search cache disabled")
	ErrUnsupportedExt = fmt.Errorf("unsupported audio format")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
