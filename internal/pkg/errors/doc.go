// Package errors provides application error types for EvalForge.
//
// This package defines:
//   - AppError type with error classification
//   - Error constructors for common error types
//   - Error type checking helpers
//   - HTTP status code mapping
//
// # Error Types
//
//   - NotFound: Record or natural-key lookup miss (404)
//   - Validation: Invalid input or unresolved entity reference (400)
//   - DataIntegrity: Metadata row and blob disagree (500)
//   - Deserialization: Persisted JSON failed to parse (500)
//   - Upstream: Enrichment API returned non-success (502)
//   - Infrastructure: Storage or network transport fault (500)
//   - Internal: Unexpected server error (500)
//
// # Usage
//
// Create errors using constructor functions:
//
//	return apperrors.NotFound("dataset")
//	return apperrors.Validation("dataSetId does not resolve to a DataSet")
//
// Check error types:
//
//	if apperrors.IsNotFound(err) {
//	    // Handle not found
//	}
//
// # Error Wrapping
//
// Errors support wrapping with fmt.Errorf:
//
//	return fmt.Errorf("save failed: %w", apperrors.NotFound("eval run"))
package errors
