// Package handler exposes the artifact store over HTTP. Handlers parse and
// validate requests, delegate to the service layer, and translate the error
// taxonomy into HTTP responses.
package handler
