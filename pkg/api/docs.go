// Package api serves the cached articles, comments and short links over HTTP.
// @title BBSCache API
// @version 1.0
// @description REST API for reading the BBS article and comment cache
// @contact.name API Support
// @contact.url https://github.com/goran-ethernal/BBSCache
// @license.name Apache 2.0
// @license.url https://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @basePath /api/v1
// @schemes http https
package api
