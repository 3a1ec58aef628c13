// Package server is the HTTP transport: document upload and extraction
// at /api/extract, reconstruction at /api/reconstruct, a small embedded
// UI at /, and a health probe at /healthz. Errors reach clients as JSON
// payloads with the failure class encoded in the status: 400 for bad
// requests, 422 for documents that cannot be processed.
package server
