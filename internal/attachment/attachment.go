package attachment

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/models"
)

var extensions = map[string]string{
	constants.MimeJPEG: ".jpg",
	constants.MimePNG:  ".png",
	constants.MimeGIF:  ".gif",
}

// StagedFile is a validated image held only in memory until upload
type StagedFile struct {
	Name   string
	MIME   string
	Size   int
	Width  int // 0 when the image header could not be decoded
	Height int

	data    []byte
	preview string
}

// Preview is an inline data URL of the staged bytes, "" after Release
func (f *StagedFile) Preview() string {
	if f == nil {
		return ""
	}
	return f.preview
}

func (f *StagedFile) Released() bool { return f == nil || f.data == nil }

// Release drops the payload and preview
func (f *StagedFile) Release() {
	if f == nil {
		return
	}
	f.data = nil
	f.preview = ""
}

// Describe is a one-line summary for the UI, e.g. "cat.png · 1.2 MiB · 640×480"
func (f *StagedFile) Describe() string {
	if f == nil {
		return ""
	}
	parts := []string{f.Name, humanize.IBytes(uint64(f.Size))}
	if f.Width > 0 && f.Height > 0 {
		parts = append(parts, fmt.Sprintf("%d×%d", f.Width, f.Height))
	}
	return strings.Join(parts, " · ")
}

// UploadName is the filename sent to the service. The service decides the
// type by extension, so the extension always matches the detected MIME type.
func (f *StagedFile) UploadName() string {
	want := extensions[f.MIME]
	base := filepath.Base(f.Name)
	ext := strings.ToLower(filepath.Ext(base))
	if ext == want || (want == ".jpg" && ext == ".jpeg") {
		return base
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." {
		stem = "image"
	}
	return stem + want
}

// Stage validates r and builds its preview without any network I/O.
// contentType is the declared type and may be empty, in which case the
// content is sniffed.
func Stage(name, contentType string, r io.Reader) (*StagedFile, error) {
	data, err := io.ReadAll(io.LimitReader(r, constants.MaxAttachmentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) > constants.MaxAttachmentBytes {
		return nil, fmt.Errorf("%s: %w", name, models.ErrFileTooLarge)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s is empty: %w", name, models.ErrInvalidFileType)
	}

	mimeType := normalizeMIME(contentType)
	if mimeType == "" {
		mimeType = normalizeMIME(http.DetectContentType(data))
	}
	if _, ok := extensions[mimeType]; !ok {
		return nil, fmt.Errorf("%s (%s): %w", name, mimeType, models.ErrInvalidFileType)
	}

	f := &StagedFile{
		Name:    filepath.Base(name),
		MIME:    mimeType,
		Size:    len(data),
		data:    data,
		preview: "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data),
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		f.Width, f.Height = cfg.Width, cfg.Height
	} else {
		logger.Debug("Could not read image dimensions", "name", name, "error", err)
	}
	return f, nil
}

// StageFile stages a file from disk, sniffing its type from the content
func StageFile(path string) (*StagedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > constants.MaxAttachmentBytes {
		return nil, fmt.Errorf("%s (%s): %w", filepath.Base(path), humanize.IBytes(uint64(info.Size())), models.ErrFileTooLarge)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Stage(path, "", file)
}

func normalizeMIME(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	if mediaType == "image/jpg" || mediaType == "image/pjpeg" {
		return constants.MimeJPEG
	}
	return mediaType
}

// Uploader is the gateway surface used to send files
type Uploader interface {
	Upload(ctx context.Context, path, field, filename string, r io.Reader, result any) error
	BaseURL() string
}

// Handler uploads staged files and resolves stored references to URLs
type Handler struct {
	remote  Uploader
	baseURL string
}

func NewHandler(remote Uploader) *Handler {
	return &Handler{remote: remote, baseURL: strings.TrimRight(remote.BaseURL(), "/")}
}

type uploadResponse struct {
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// Upload sends f and returns the service's storage reference
func (h *Handler) Upload(ctx context.Context, f *StagedFile) (string, error) {
	if f.Released() {
		return "", fmt.Errorf("upload: staged file was released")
	}

	var resp uploadResponse
	err := h.remote.Upload(ctx, constants.FilesPath+"/upload", "file", f.UploadName(), bytes.NewReader(f.data), &resp)
	if err != nil {
		return "", err
	}
	if resp.Filename == "" {
		return "", &models.RemoteError{
			Method:     http.MethodPost,
			Path:       constants.FilesPath + "/upload",
			StatusCode: http.StatusOK,
			Message:    "service did not return a filename",
		}
	}
	return resp.Filename, nil
}

// Resolve composes the retrievable URL for a stored reference. It does no I/O.
func (h *Handler) Resolve(ref string) string {
	return Resolve(h.baseURL, ref)
}

// Resolve composes base/files/ref; an empty reference yields ""
func Resolve(baseURL, ref string) string {
	if ref == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + constants.FilesPath + "/" + url.PathEscape(ref)
}
