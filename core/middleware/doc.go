// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key) protecting the object routes.
//   - rayid: assigns every request a ray id (X-Ray-ID), stored in locals for
//     logger.WithRayID and echoed on the response.
package middleware
