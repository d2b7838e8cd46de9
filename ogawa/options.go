package ogawa

import "github.com/rs/zerolog"

// Option configures how an archive is opened.
type Option func(*options)

type options struct {
	logger     zerolog.Logger
	mmap       bool
	cachePage  int
	cachePages int
}

func defaultOptions() *options {
	return &options{
		logger: zerolog.Nop(),
	}
}

// WithLogger sets the logger used for open-time diagnostics. The default
// discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMmap makes Open memory-map the file instead of issuing reads.
func WithMmap() Option {
	return func(o *options) {
		o.mmap = true
	}
}

// WithCache layers an LRU page cache of pages × pageSize bytes over the byte
// source. Non-positive values disable the cache.
func WithCache(pageSize, pages int) Option {
	return func(o *options) {
		if pageSize > 0 && pages > 0 {
			o.cachePage = pageSize
			o.cachePages = pages
		}
	}
}
