package common

const (
	ComponentRunner      = "runner"
	ComponentArticleSync = "article-sync"
	ComponentCommentSync = "comment-sync"
	ComponentScanner     = "scanner"
	ComponentShortLink   = "shortlink"
	ComponentCheckpoint  = "checkpoint"
	ComponentStore       = "store"
	ComponentChain       = "chain"
	ComponentMaintenance = "maintenance"
	ComponentAPI         = "api"
)

var AllComponents = map[string]struct{}{
	ComponentRunner:      {},
	ComponentArticleSync: {},
	ComponentCommentSync: {},
	ComponentScanner:     {},
	ComponentShortLink:   {},
	ComponentCheckpoint:  {},
	ComponentStore:       {},
	ComponentChain:       {},
	ComponentMaintenance: {},
	ComponentAPI:         {},
}
