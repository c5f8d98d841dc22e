// Package service contains the business logic of the artifact store.
//
// Services coordinate between handlers and the dual-store repositories:
// they resolve audit identities, validate entity references, normalize
// dataset ordering, and drive the eval run lifecycle including the outbound
// enrichment call.
//
// Services depend on the repository and enrichment interfaces defined in
// this package, and are safe for concurrent use from multiple goroutines.
package service
