package trends24

import "context"

// Page is the browser automation capability the acquisition drives.
// Every blocking call honours the deadline and cancellation of ctx.
type Page interface {
	// Navigate loads url and returns once the network has gone quiet.
	Navigate(ctx context.Context, url string) error
	// WaitReady blocks until an element matching selector is in the DOM.
	WaitReady(ctx context.Context, selector string) error
	// Click clicks the first element matching selector.
	Click(ctx context.Context, selector string) error
	// Texts returns the text content of every element matching selector, in document order.
	Texts(ctx context.Context, selector string) ([]string, error)
	// ClickNth clicks the index-th element matching selector.
	ClickNth(ctx context.Context, selector string, index int) error
	// OuterHTML returns the serialized markup of the first element matching selector.
	OuterHTML(ctx context.Context, selector string) (string, error)
	// Close releases the browser session. It is safe to call more than once.
	Close() error
}

// Launcher opens an isolated Page for a single acquisition.
type Launcher interface {
	Launch(ctx context.Context) (Page, error)
}
