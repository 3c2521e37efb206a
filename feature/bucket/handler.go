package bucket

import (
	"errors"
	"strconv"

	"bucketkit/core/logger"
	"bucketkit/core/objects"
	"bucketkit/core/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for object operations.
type Handler struct {
	store  *objects.Store
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(store *objects.Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// RegisterRoutes registers the object routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/buckets/:bucket")
	group.Get("/objects", h.HandleList)
	group.Get("/exists", h.HandleExists)
	group.Get("/content", h.HandleContent)
	group.Get("/object", h.HandleGet)
	group.Put("/object", h.HandleWrite)
	group.Delete("/object", h.HandleDelete)
	group.Post("/copy", h.HandleCopy)
	group.Post("/restore", h.HandleRestore)
}

// CopyRequest is the body of POST /buckets/:bucket/copy.
type CopyRequest struct {
	Key          string `json:"key"`
	Source       string `json:"source"`
	StorageClass string `json:"storage_class"`
}

// RestoreRequest is the body of POST /buckets/:bucket/restore.
type RestoreRequest struct {
	Key       string `json:"key"`
	Days      int    `json:"days"`
	Tier      string `json:"tier"`
	VersionID string `json:"version_id"`
}

var errMissingKey = errors.New("key is required")

// fail maps an error to a status code and logs it.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	l := logger.WithRayID(h.logger, c)

	status := fiber.StatusInternalServerError
	switch {
	case objects.IsNotFound(err):
		status = fiber.StatusNotFound
	case errors.Is(err, errMissingKey),
		errors.Is(err, objects.ErrInvalidCopySource),
		errors.Is(err, objects.ErrInvalidTier),
		errors.Is(err, objects.ErrInvalidUTF8):
		status = fiber.StatusBadRequest
	}

	if status == fiber.StatusInternalServerError {
		l.Error("Object operation failed",
			zap.String("path", c.Path()),
			zap.String("code", objects.ErrorCode(err)),
			zap.Error(err),
		)
	} else {
		l.Debug("Object operation rejected", zap.Int("status", status), zap.Error(err))
	}

	body := fiber.Map{"error": err.Error()}
	if code := objects.ErrorCode(err); code != "" {
		body["code"] = code
	}
	return c.Status(status).JSON(body)
}

func requireKey(c *fiber.Ctx) (string, error) {
	key := c.Query("key")
	if key == "" {
		return "", errMissingKey
	}
	return key, nil
}

// HandleList returns one page of objects under ?prefix, or all of them with ?all=true.
// @Summary List Objects
// @Description Lists objects whose key starts with the prefix. Pass the returned continuation_token back as token for the next page, or all=true to walk every page.
// @Tags objects
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param prefix query string false "Key prefix"
// @Param token query string false "Continuation token"
// @Param max_keys query int false "Page size"
// @Param all query bool false "Walk every page"
// @Success 200 {object} objects.Page
// @Failure 404 {object} map[string]string "Bucket not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /buckets/{bucket}/objects [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	bucket := c.Params("bucket")
	prefix := c.Query("prefix")

	if utils.ToBool(c.Query("all")) {
		all, err := h.store.ListAll(c.Context(), bucket, prefix)
		if err != nil {
			return h.fail(c, err)
		}
		return c.JSON(objects.Page{Objects: all})
	}

	page, err := h.store.ListObjects(c.Context(), bucket, prefix, objects.ListOptions{
		ContinuationToken: c.Query("token"),
		MaxKeys:           utils.ToInt(c.Query("max_keys"), 0),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(page)
}

// HandleExists reports whether anything matches ?prefix, or exactly ?key when given.
// @Summary Check Existence
// @Description Prefix test by default: "a/b" matches "a/b.json". Pass key for an exact match. A missing bucket reports false.
// @Tags objects
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param prefix query string false "Key prefix"
// @Param key query string false "Exact key"
// @Success 200 {object} map[string]bool
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /buckets/{bucket}/exists [get]
func (h *Handler) HandleExists(c *fiber.Ctx) error {
	bucket := c.Params("bucket")

	var (
		exists bool
		err    error
	)
	if key := c.Query("key"); key != "" {
		exists, err = h.store.KeyExists(c.Context(), bucket, key)
	} else {
		exists, err = h.store.ObjectExists(c.Context(), bucket, c.Query("prefix"))
	}
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"exists": exists})
}

// HandleContent returns the object body as UTF-8 text.
// @Summary Get Object Content
// @Tags objects
// @Produce plain
// @Param bucket path string true "Bucket name"
// @Param key query string true "Object key"
// @Success 200 {string} string "Object body"
// @Failure 400 {object} map[string]string "Missing key or body is not UTF-8"
// @Failure 404 {object} map[string]string "Object not found"
// @Router /buckets/{bucket}/content [get]
func (h *Handler) HandleContent(c *fiber.Ctx) error {
	key, err := requireKey(c)
	if err != nil {
		return h.fail(c, err)
	}

	text, err := h.store.GetObjectContent(c.Context(), c.Params("bucket"), key)
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(text)
}

// HandleGet streams the raw object with its stored metadata.
// @Summary Download Object
// @Description Streams the stored bytes. Content-Encoding is forwarded for objects written compressed.
// @Tags objects
// @Produce octet-stream
// @Param bucket path string true "Bucket name"
// @Param key query string true "Object key"
// @Success 200 {file} file "Object body"
// @Failure 400 {object} map[string]string "Missing key"
// @Failure 404 {object} map[string]string "Object not found"
// @Router /buckets/{bucket}/object [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	key, err := requireKey(c)
	if err != nil {
		return h.fail(c, err)
	}

	obj, err := h.store.GetObject(c.Context(), c.Params("bucket"), key)
	if err != nil {
		return h.fail(c, err)
	}

	if obj.Info.ContentType != "" {
		c.Set(fiber.HeaderContentType, obj.Info.ContentType)
	}
	if obj.Info.ETag != "" {
		c.Set(fiber.HeaderETag, strconv.Quote(obj.Info.ETag))
	}
	if enc := obj.Info.Metadata.Get(fiber.HeaderContentEncoding); enc != "" {
		c.Set(fiber.HeaderContentEncoding, enc)
	}
	// The stream is closed by fasthttp once the response is sent.
	return c.SendStream(obj.Body, int(obj.Info.Size))
}

// HandleWrite stores the request body at ?key. ?compress=true gzips it first.
// @Summary Write Object
// @Tags objects
// @Accept octet-stream
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param key query string true "Object key"
// @Param compress query bool false "Gzip before storing"
// @Param storage_class query string false "Storage class"
// @Success 201 {object} map[string]interface{} "Upload info"
// @Failure 400 {object} map[string]string "Missing key"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /buckets/{bucket}/object [put]
func (h *Handler) HandleWrite(c *fiber.Ctx) error {
	key, err := requireKey(c)
	if err != nil {
		return h.fail(c, err)
	}

	info, err := h.store.WriteObject(c.Context(), c.Params("bucket"), key, c.Body(), objects.PutOptions{
		Compress:     utils.ToBool(c.Query("compress")),
		ContentType:  c.Get(fiber.HeaderContentType),
		StorageClass: c.Query("storage_class"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(uploadBody(info))
}

// HandleDelete removes ?key.
// @Summary Delete Object
// @Tags objects
// @Param bucket path string true "Bucket name"
// @Param key query string true "Object key"
// @Success 204 "Deleted"
// @Failure 400 {object} map[string]string "Missing key"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /buckets/{bucket}/object [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	key, err := requireKey(c)
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.store.DeleteObject(c.Context(), c.Params("bucket"), key); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleCopy copies a "bucket/key" source into this bucket.
// @Summary Copy Object
// @Description Server-side copy. A storage_class changes the destination tier and keeps the source metadata.
// @Tags objects
// @Accept json
// @Produce json
// @Param bucket path string true "Destination bucket"
// @Param request body CopyRequest true "Copy request"
// @Success 201 {object} map[string]interface{} "Upload info"
// @Failure 400 {object} map[string]string "Invalid request or source"
// @Failure 404 {object} map[string]string "Source not found"
// @Router /buckets/{bucket}/copy [post]
func (h *Handler) HandleCopy(c *fiber.Ctx) error {
	var req CopyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Key == "" {
		return h.fail(c, errMissingKey)
	}

	info, err := h.store.CopyObject(c.Context(), c.Params("bucket"), req.Key, req.Source, objects.CopyOptions{
		StorageClass: req.StorageClass,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(uploadBody(info))
}

// HandleRestore starts a restore of an archived object.
// @Summary Restore Archived Object
// @Description Requests a temporary restore. A restore already in progress is reported with already_in_progress=true.
// @Tags objects
// @Accept json
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param request body RestoreRequest true "Restore request"
// @Success 202 {object} objects.RestoreResult
// @Failure 400 {object} map[string]string "Invalid request or tier"
// @Failure 404 {object} map[string]string "Object not found"
// @Router /buckets/{bucket}/restore [post]
func (h *Handler) HandleRestore(c *fiber.Ctx) error {
	var req RestoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Key == "" {
		return h.fail(c, errMissingKey)
	}

	tier, err := objects.ParseTier(req.Tier)
	if err != nil {
		return h.fail(c, err)
	}

	res, err := h.store.RestoreObject(c.Context(), c.Params("bucket"), req.Key, objects.RestoreOptions{
		Days:      req.Days,
		Tier:      tier,
		VersionID: req.VersionID,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(res)
}

func uploadBody(info minio.UploadInfo) fiber.Map {
	return fiber.Map{
		"bucket":     info.Bucket,
		"key":        info.Key,
		"etag":       info.ETag,
		"size":       info.Size,
		"version_id": info.VersionID,
	}
}
