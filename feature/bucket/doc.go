// Package bucket exposes the object storage façade over HTTP.
//
// # HTTP Endpoints
//
// All routes live under /buckets/:bucket and take the object key as ?key=.
//
//   - GET    /objects?prefix=&token=&max_keys=&all= : list a page (or everything)
//   - GET    /exists?prefix= | ?key= : prefix or exact-key existence
//   - GET    /content?key= : body as UTF-8 text
//   - GET    /object?key= : raw body with stored Content-Type / Content-Encoding
//   - PUT    /object?key=&compress=&storage_class= : write the request body
//   - DELETE /object?key= : delete
//   - POST   /copy {key, source, storage_class} : server-side copy into this bucket
//   - POST   /restore {key, days, tier, version_id} : restore from archive
//
// Missing objects map to 404, malformed input to 400, anything else to 500
// with the service error code in the body.
package bucket
