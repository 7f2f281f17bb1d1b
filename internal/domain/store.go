package domain

// Store handles the local cache (BoltDB + memory).
type Store interface {
	// === List pages, keyed by canonical query ===
	GetPage(key string) (QueryResult, bool)
	SavePage(key string, result QueryResult) error

	// === Movie details ===
	GetMovie(id int) (*MovieDetail, bool)
	SaveMovie(detail *MovieDetail) error

	// === Session ===
	LastLocation() (string, bool)
	SaveLastLocation(loc string) error

	// === Invalidation ===
	InvalidatePages()
	InvalidateMovie(id int)
	InvalidateAll()

	Close() error
}
