package types

// Stream is one of the two event streams the cache follows.
type Stream struct {
	// Tag keys the stream's checkpoint
	Tag string
	// Event is the contract event name scanned for the stream
	Event string
}

var (
	ArticleStream = Stream{Tag: "articles", Event: "Posted"}
	CommentStream = Stream{Tag: "comments", Event: "Replied"}
)
