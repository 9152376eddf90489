package driven

// PageRefs is everything the extractor pulls out of a page's HTML.
type PageRefs struct {
	// Title is the text of the first <title> element, if any.
	Title string

	// ImageRefs are the raw img src values, in document order.
	ImageRefs []string

	// OpenGraphRefs are the og:image meta content values, in document order.
	OpenGraphRefs []string
}

// RefExtractor parses HTML and extracts the references carbon14 dates.
// Implementations must tolerate malformed markup: extraction yields
// whatever can be recovered and never fails.
type RefExtractor interface {
	Extract(html string) PageRefs
}
