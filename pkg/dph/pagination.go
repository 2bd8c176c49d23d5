package dph

import (
	"context"
	"errors"
	"fmt"
)

// Static errors for err113 compliance.
var (
	ErrNoMoreResults     = errors.New("no more results available")
	ErrStartReserved     = errors.New("the start cursor is reserved for the pager and must not be set")
	ErrMalformedPage     = errors.New("malformed page: items field missing")
	ErrCursorNotAdvanced = errors.New("server returned the cursor that was just sent")
	ErrNilListClient     = errors.New("list client is required")
)

// Page is one response of a list endpoint.
type Page[T any] struct {
	Items []T
	// Next is the cursor of the following page. Empty means the stream has ended.
	Next string
}

// PageFetcher performs one call to a list endpoint. start is empty for the first page.
type PageFetcher[T any] func(ctx context.Context, start string) (*Page[T], error)

// Pager walks a cursor paginated list endpoint one page at a time.
//
// A Pager is single-use: once HasNext reports false it stays false, and a new
// Pager has to be built to list again. It is not safe for concurrent use.
type Pager[T any] struct {
	fetch   PageFetcher[T]
	cursor  string
	hasMore bool
}

// NewPager creates a pager driven by fetch. No request is made until Next is called.
func NewPager[T any](fetch PageFetcher[T]) *Pager[T] {
	return &Pager[T]{
		fetch:   fetch,
		hasMore: true,
	}
}

// HasNext reports whether more pages may exist. A page that follows may still be empty.
func (p *Pager[T]) HasNext() bool {
	return p.hasMore
}

// Next fetches the next page and returns its items.
//
// Errors from the fetcher are returned as is and leave the pager untouched,
// so Next can be called again after a transient failure.
func (p *Pager[T]) Next(ctx context.Context) ([]T, error) {
	if !p.hasMore {
		return nil, ErrNoMoreResults
	}

	page, err := p.fetch(ctx, p.cursor)
	if err != nil {
		return nil, err
	}

	if page == nil {
		return nil, ErrMalformedPage
	}

	if page.Next != "" && page.Next == p.cursor {
		return nil, fmt.Errorf("%w: %q", ErrCursorNotAdvanced, page.Next)
	}

	p.cursor = page.Next
	p.hasMore = page.Next != ""

	return page.Items, nil
}

// All fetches every remaining page and returns the items in server order.
// On failure no items are returned.
func (p *Pager[T]) All(ctx context.Context) ([]T, error) {
	all := []T{}

	for p.HasNext() {
		items, err := p.Next(ctx)
		if err != nil {
			return nil, err
		}

		all = append(all, items...)
	}

	return all, nil
}

// ForEach calls fn for every remaining item, stopping at the first error.
func (p *Pager[T]) ForEach(ctx context.Context, fn func(T) error) error {
	for p.HasNext() {
		items, err := p.Next(ctx)
		if err != nil {
			return err
		}

		for _, item := range items {
			err := fn(item)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// PageResult is a page or an error delivered by StreamPages.
type PageResult[T any] struct {
	Items []T
	Err   error
}

// StreamPages fetches pages in the background and delivers them on the returned channel.
// The channel is unbuffered, so at most one page is in flight ahead of the consumer.
// It is closed after the last page, after an error result, or when ctx is cancelled.
// A caller that stops reading before the channel is closed must cancel ctx,
// otherwise the producing goroutine blocks forever.
func StreamPages[T any](ctx context.Context, pager *Pager[T]) <-chan PageResult[T] {
	results := make(chan PageResult[T])

	go func() {
		defer close(results)

		for pager.HasNext() {
			items, err := pager.Next(ctx)

			select {
			case results <- PageResult[T]{Items: items, Err: err}:
			case <-ctx.Done():
				return
			}

			if err != nil {
				return
			}
		}
	}()

	return results
}

// NewDataProductsPager creates a pager over the data products list.
func NewDataProductsPager(client DataProductsClient, options *ListDataProductsOptions) (*Pager[DataProductSummary], error) {
	if client == nil {
		return nil, ErrNilListClient
	}

	if options != nil && options.Start != "" {
		return nil, fmt.Errorf("%w: ListDataProductsOptions.Start", ErrStartReserved)
	}

	base := options.clone()

	return NewPager(func(ctx context.Context, start string) (*Page[DataProductSummary], error) {
		params := base
		params.Start = start

		collection, err := client.List(ctx, &params)
		if err != nil {
			return nil, err
		}

		if collection == nil {
			return nil, ErrMalformedPage
		}

		return &Page[DataProductSummary]{Items: collection.DataProducts, Next: collection.NextStart()}, nil
	}), nil
}

// NewDraftsPager creates a pager over the drafts of a data product.
func NewDraftsPager(client DraftsClient, dataProductID string, options *ListDraftsOptions) (*Pager[DataProductVersionSummary], error) {
	if client == nil {
		return nil, ErrNilListClient
	}

	if options != nil && options.Start != "" {
		return nil, fmt.Errorf("%w: ListDraftsOptions.Start", ErrStartReserved)
	}

	base := options.clone()

	return NewPager(func(ctx context.Context, start string) (*Page[DataProductVersionSummary], error) {
		params := base
		params.Start = start

		collection, err := client.List(ctx, dataProductID, &params)
		if err != nil {
			return nil, err
		}

		if collection == nil {
			return nil, ErrMalformedPage
		}

		return &Page[DataProductVersionSummary]{Items: collection.Drafts, Next: collection.NextStart()}, nil
	}), nil
}

// NewReleasesPager creates a pager over the releases of a data product.
func NewReleasesPager(client ReleasesClient, dataProductID string, options *ListReleasesOptions) (*Pager[DataProductVersionSummary], error) {
	if client == nil {
		return nil, ErrNilListClient
	}

	if options != nil && options.Start != "" {
		return nil, fmt.Errorf("%w: ListReleasesOptions.Start", ErrStartReserved)
	}

	base := options.clone()

	return NewPager(func(ctx context.Context, start string) (*Page[DataProductVersionSummary], error) {
		params := base
		params.Start = start

		collection, err := client.List(ctx, dataProductID, &params)
		if err != nil {
			return nil, err
		}

		if collection == nil {
			return nil, ErrMalformedPage
		}

		return &Page[DataProductVersionSummary]{Items: collection.Releases, Next: collection.NextStart()}, nil
	}), nil
}
