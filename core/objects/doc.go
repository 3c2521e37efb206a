// Package objects is the object storage façade.
//
// A Store wraps a storage.Client and offers one method per storage action:
//
//   - GetObject / GetObjectContent: read an object as a stream or as UTF-8 text
//   - ListObject / ListObjects / ListAll: prefix listing, single page, paginated or exhaustive
//   - ObjectExists / KeyExists: prefix and exact-key existence
//   - WriteObject / UploadFile: store bytes or a local file, optionally gzipped
//   - CopyObject: server-side copy with an optional storage-class change
//   - DeleteObject
//   - RestoreObject: bring an archived object back for a number of days
//
// # Errors
//
// Service errors are returned unmodified, so minio.ToErrorResponse keeps
// working on them. IsNotFound and IsRestoreInProgress classify them. The only
// error the Store absorbs is RestoreAlreadyInProgress.
//
// # Compression
//
// Writes and uploads may gzip content (Content-Encoding: gzip). Reads never
// decompress; callers decide based on the stored encoding.
//
// # Usage
//
//	client, _ := storage.NewClient(cfg.Storage)
//	store := objects.New(client, logg)
//	_, err := store.WriteObject(ctx, "test-bucket", "x.json", []byte(`{"a":1}`), objects.PutOptions{})
//	text, err := store.GetObjectContent(ctx, "test-bucket", "x.json")
package objects
