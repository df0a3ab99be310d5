package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-image-compress/internal/config"
	"go-image-compress/internal/diag"
	"go-image-compress/internal/engine"
	apperrors "go-image-compress/internal/errors"
	"go-image-compress/internal/logger"
	"go-image-compress/internal/metrics"
	"go-image-compress/internal/proxy"
	"go-image-compress/internal/service"
	"go-image-compress/internal/source"
	"go-image-compress/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const serviceVersion = "1.0.0"

// Per-route output format defaults
const (
	defaultReferenceFormat = "png"
	defaultUploadFormat    = "jpeg"
)

func NewHandler(
	compressor service.CompressionService,
	replay *proxy.ReplayClient,
	cfg *config.Config,
) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Add middleware
	r.Use(
		gin.Recovery(),
		requestLogger(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/", serviceInfo(cfg))
	r.GET("/health", healthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/compress", compressByReference(compressor, cfg))
	r.POST("/compress/upload", compressByUpload(compressor, cfg))
	r.POST("/proxy/curl", proxyCurl(replay, cfg))

	if cfg.DebugRoutes {
		r.GET("/debug/tree", directoryTree)
	}

	return r
}

func serviceInfo(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.InfoResponse{
			Status:  "available",
			Service: "go-image-compress",
			Version: serviceVersion,
			Engine:  cfg.ImageEngine,
			Time:    time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": serviceVersion,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func compressByReference(compressor service.CompressionService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.CompressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		var src source.UploadSource
		switch {
		case req.URL != "" && req.Base64 != "":
			respondError(c, http.StatusBadRequest, "invalid image source",
				apperrors.NewValidationError("Specify exactly one of url or base64", nil))
			return
		case req.URL != "":
			src = source.RemoteURL{URL: req.URL}
		case req.Base64 != "":
			src = source.Base64{Payload: req.Base64}
		default:
			respondError(c, http.StatusBadRequest, "missing image source",
				apperrors.NewValidationError("Either url or base64 is required", nil))
			return
		}

		format := req.Format
		if format == "" {
			format = defaultReferenceFormat
		}

		result, err := compressor.Compress(ctx, service.CompressionRequest{
			Source:  src,
			Width:   req.Width,
			Height:  req.Height,
			Quality: req.Quality,
			Format:  format,
		})
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "failed to compress image", err)
			return
		}

		writeCompressionResult(c, result)
	}
}

func compressByUpload(compressor service.CompressionService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		src, err := resolveUploadSource(c)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid upload payload", err)
			return
		}

		quality, err := uploadQuality(c)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid quality parameter", err)
			return
		}

		width := uploadIntParam(c, "width")
		height := uploadIntParam(c, "height")
		format := uploadParam(c, "format")
		if format == "" {
			format = defaultUploadFormat
		}

		result, err := compressor.Compress(ctx, service.CompressionRequest{
			Source:  src,
			Width:   width,
			Height:  height,
			Quality: quality,
			Format:  format,
		})
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "failed to compress upload", err)
			return
		}

		writeCompressionResult(c, result)
	}
}

// resolveUploadSource picks the upload shape once at the boundary: a
// multipart "file" field when the content type says so, the raw request
// stream otherwise.
func resolveUploadSource(c *gin.Context) (source.UploadSource, error) {
	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return nil, apperrors.NewValidationError("Multipart field 'file' is required", err)
		}
		return source.MultipartFile{Header: fileHeader}, nil
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, apperrors.NewValidationError("Failed to read request body", err)
	}
	if len(data) == 0 {
		return nil, apperrors.NewValidationError("Upload body is empty", nil)
	}
	return source.RawBody{Data: data}, nil
}

// uploadParam reads a parameter from the query string first, then the form
func uploadParam(c *gin.Context, name string) string {
	if v := c.Query(name); v != "" {
		return v
	}
	return c.PostForm(name)
}

func uploadIntParam(c *gin.Context, name string) int {
	raw := uploadParam(c, name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func uploadQuality(c *gin.Context) (*int, error) {
	raw := uploadParam(c, "quality")
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperrors.NewValidationError("Quality must be an integer", err)
	}
	return &v, nil
}

func writeCompressionResult(c *gin.Context, result *engine.Result) {
	c.Header("X-Original-Size", strconv.Itoa(result.OriginalSize))
	c.Header("X-Compressed-Size", strconv.Itoa(result.CompressedSize))
	c.Header("X-Compression-Ratio", fmt.Sprintf("%.2f", result.Ratio))
	c.Header("X-Original-Width", strconv.Itoa(result.OriginalWidth))
	c.Header("X-Original-Height", strconv.Itoa(result.OriginalHeight))
	c.Header("X-Compressed-Width", strconv.Itoa(result.CompressedWidth))
	c.Header("X-Compressed-Height", strconv.Itoa(result.CompressedHeight))

	c.Data(http.StatusOK, result.ContentType, result.Data)
}

func proxyCurl(replay *proxy.ReplayClient, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.ProxyTimeout)
		defer cancel()

		curlCommand := extractCurlCommand(c)
		if curlCommand == "" {
			metrics.ProxyRequestsTotal.WithLabelValues("parse_error").Inc()
			c.JSON(http.StatusInternalServerError, models.ProxyErrorResponse{
				Code:    "CURL_PARSE_ERROR",
				Message: "curl command is required (body field 'curl' or query parameter)",
			})
			return
		}

		descriptor, err := proxy.ParseCurl(curlCommand)
		if err != nil {
			metrics.ProxyRequestsTotal.WithLabelValues("parse_error").Inc()
			logger.WithError(err).Error("Failed to parse curl command")
			c.JSON(http.StatusInternalServerError, models.ProxyErrorResponse{
				Code:    "CURL_PARSE_ERROR",
				Message: err.Error(),
			})
			return
		}

		result, err := replay.Execute(ctx, descriptor)
		if err != nil {
			metrics.ProxyRequestsTotal.WithLabelValues("request_error").Inc()
			logger.WithError(err).WithFields(logrus.Fields{
				"url":    descriptor.URL,
				"method": descriptor.Method,
			}).Error("Proxy replay failed")
			c.JSON(http.StatusInternalServerError, models.ProxyErrorResponse{
				Code:    "PROXY_REQUEST_FAILED",
				Message: err.Error(),
				AxiosConfig: &models.ProxyRequestConfig{
					URL:    descriptor.URL,
					Method: descriptor.Method,
				},
			})
			return
		}

		metrics.ProxyRequestsTotal.WithLabelValues("ok").Inc()

		contentType := result.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Data(result.StatusCode, contentType, result.Body)
	}
}

// extractCurlCommand reads the curl command from the JSON body, falling back
// to the query parameter.
func extractCurlCommand(c *gin.Context) string {
	var req models.ProxyRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.Curl != "" {
		return req.Curl
	}
	return c.Query("curl")
}

func directoryTree(c *gin.Context) {
	root := c.DefaultQuery("path", ".")
	depth, err := strconv.Atoi(c.DefaultQuery("depth", "3"))
	if err != nil || depth < 0 {
		depth = 3
	}

	entries := diag.Tree(root, depth)
	c.JSON(http.StatusOK, gin.H{
		"root":    root,
		"depth":   depth,
		"count":   len(entries),
		"entries": entries,
	})
}
