package server

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"HeicConvert/internal/codec"
	"HeicConvert/internal/convert"
	"HeicConvert/internal/domain"
	"HeicConvert/internal/logger"
	"HeicConvert/internal/paths"
	"HeicConvert/internal/settings"
	"HeicConvert/internal/storage"
)

// multipartOverhead leaves room for form boundaries around an upload.
const multipartOverhead = 1 << 20

// API holds the dependencies of the HTTP handlers.
type API struct {
	settings *settings.Store
	uploads  *storage.Uploads
	codec    convert.Codec
	opener   convert.Opener
	resolver paths.Resolver
}

// NewAPI wires the handlers. opener is used only for convert requests that ask
// for the result to be opened; it may be nil.
func NewAPI(store *settings.Store, uploads *storage.Uploads, c convert.Codec, opener convert.Opener) *API {
	return &API{settings: store, uploads: uploads, codec: c, opener: opener}
}

func (a *API) maxBodyBytes() int64 {
	return storage.MaxUploadBytes + multipartOverhead
}

func registerRoutes(r *gin.Engine, api *API) {
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", api.handleHealth)

		apiGroup.GET("/settings", api.handleGetSettings)
		apiGroup.POST("/settings", api.handleSaveSettings)

		apiGroup.GET("/formats", api.handleFormats)
		apiGroup.POST("/upload", api.handleUpload)
		apiGroup.DELETE("/upload", api.handleDeleteUpload)
		apiGroup.POST("/convert", api.handleConvert)
		apiGroup.GET("/preview", api.handlePreview)
	}
}

func (a *API) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "heif": codec.HEIFSupported()})
}

func (a *API) handleGetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, a.settings.Load())
}

func (a *API) handleSaveSettings(c *gin.Context) {
	var payload domain.Settings
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	payload.InputFormat = strings.TrimSpace(payload.InputFormat)
	payload.OutputFormat = codec.NormalizeFormat(payload.OutputFormat)
	payload.SaveLocation = strings.TrimSpace(payload.SaveLocation)

	if err := a.settings.Save(payload); err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

func (a *API) handleFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"targets": codec.TargetFormats()})
}

func (a *API) handleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	path, err := a.uploads.Save(file, fileHeader.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, err)
			return
		}
		logger.Error("upload save", "name", fileHeader.Filename, "err", err)
		respondMessage(c, http.StatusInternalServerError, "failed to save file")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"path": path, "name": fileHeader.Filename})
}

// handleDeleteUpload discards an upload that will not be converted.
func (a *API) handleDeleteUpload(c *gin.Context) {
	name := filepath.Base(strings.TrimSpace(c.Query("name")))
	if name == "" || name == "." || name == string(filepath.Separator) {
		respondMessage(c, http.StatusBadRequest, "name is required")
		return
	}
	if err := a.uploads.Remove(name); err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// removeUploads deletes the uploaded sources of a finished batch. Paths
// outside the uploads directory belong to the user and are left alone.
func (a *API) removeUploads(sources []string) {
	for _, src := range sources {
		if !storage.Within(a.uploads.Dir(), src) {
			continue
		}
		rel, err := filepath.Rel(a.uploads.Dir(), src)
		if err != nil {
			continue
		}
		if err := a.uploads.Remove(filepath.ToSlash(rel)); err != nil {
			logger.Warn("remove upload", "path", src, "err", err)
		}
	}
}

type convertRequest struct {
	Paths        []string `json:"paths" binding:"required,min=1"`
	Format       string   `json:"format"`
	SaveLocation string   `json:"saveLocation"`
	Open         bool     `json:"open"`
}

type resultResponse struct {
	Source string `json:"source"`
	Output string `json:"output,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Error  string `json:"error,omitempty"`
}

type convertResponse struct {
	Results   []resultResponse `json:"results"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Opened    string           `json:"opened,omitempty"`
	OpenError string           `json:"openError,omitempty"`
}

func (a *API) handleConvert(c *gin.Context) {
	var payload convertRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	s := a.settings.Load()
	format := payload.Format
	if strings.TrimSpace(format) == "" {
		format = s.OutputFormat
	}
	outDir := payload.SaveLocation
	if strings.TrimSpace(outDir) == "" {
		outDir = s.SaveLocation
	}

	var opts []convert.Option
	if payload.Open && a.opener != nil {
		opts = append(opts, convert.WithOpener(a.opener))
	}
	conv := convert.New(a.codec, opts...)

	outcome, err := conv.ConvertBatch(c.Request.Context(), payload.Paths, codec.NormalizeFormat(format), outDir)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	a.removeUploads(payload.Paths)
	c.JSON(http.StatusOK, toConvertResponse(outcome))
}

func toConvertResponse(o domain.Outcome) convertResponse {
	resp := convertResponse{Results: make([]resultResponse, 0, len(o.Results)), Opened: o.Opened}
	resp.Succeeded, resp.Failed = o.Counts()
	for _, r := range o.Results {
		item := resultResponse{Source: r.SourcePath, Output: r.OutputPath}
		if r.Err != nil {
			item.Kind = string(r.Err.Kind)
			item.Error = r.Err.Error()
		}
		resp.Results = append(resp.Results, item)
	}
	if o.OpenErr != nil {
		resp.OpenError = o.OpenErr.Error()
	}
	return resp
}

// handlePreview serves a browser-displayable copy of a converted file. Only
// files inside the current save location are reachable.
func (a *API) handlePreview(c *gin.Context) {
	name := strings.TrimSpace(c.Query("path"))
	if name == "" {
		respondMessage(c, http.StatusNotFound, "not found")
		return
	}

	dir, err := a.resolver.OutputDir(a.settings.Load().SaveLocation)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, filepath.FromSlash(name))
	}
	if !storage.Within(dir, path) {
		respondMessage(c, http.StatusNotFound, "not found")
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		respondMessage(c, http.StatusNotFound, "not found")
		return
	}

	data, mime, err := storage.Thumbnail(path, storage.ThumbnailMaxBytes)
	if err != nil {
		logger.Warn("preview", "path", path, "err", err)
		respondMessage(c, http.StatusUnprocessableEntity, "cannot preview file")
		return
	}
	c.Data(http.StatusOK, mime, data)
}

func respondError(c *gin.Context, status int, err error) {
	respondMessage(c, status, err.Error())
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
