package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/julianstephens/daybook/internal/config"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/models"
)

// TokenSource supplies the identity token attached to outbound requests
type TokenSource interface {
	Token() string
}

// Gateway is the single outbound channel to the diary service. Every request
// goes through the same before-request hook, which attaches the device
// identity, and the same error hook, which logs failures. It never retries,
// caches or coalesces requests.
type Gateway struct {
	client  *resty.Client
	baseURL string
	header  string
	tokens  TokenSource
}

func New(cfg config.APIConfig, tokens TokenSource) *Gateway {
	g := &Gateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		header:  cfg.IdentityHeader,
		tokens:  tokens,
	}
	if g.header == "" {
		g.header = constants.DefaultIdentityHeader
	}

	g.client = resty.New().
		SetBaseURL(g.baseURL).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{}).
		OnBeforeRequest(g.beforeRequest).
		OnAfterResponse(g.afterResponse).
		OnError(g.onError)

	return g
}

// BaseURL is the service root all paths are relative to
func (g *Gateway) BaseURL() string { return g.baseURL }

func (g *Gateway) beforeRequest(_ *resty.Client, req *resty.Request) error {
	req.Header.Set(constants.RequestIDHeader, uuid.NewString())

	if strings.HasPrefix(req.URL, constants.IdentityPathPrefix) {
		return nil
	}
	// Without a token the request still goes out; the service rejects it.
	if token := g.tokens.Token(); token != "" {
		req.Header.Set(g.header, token)
	}
	return nil
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (g *Gateway) afterResponse(_ *resty.Client, resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	rerr := &models.RemoteError{
		Method:     resp.Request.Method,
		StatusCode: resp.StatusCode(),
	}
	var body errorBody
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		rerr.Message = body.Message
		if rerr.Message == "" {
			rerr.Message = body.Error
		}
	}
	return rerr
}

func (g *Gateway) onError(req *resty.Request, err error) {
	status := 0
	var respErr *resty.ResponseError
	if errors.As(err, &respErr) && respErr.Response != nil {
		status = respErr.Response.StatusCode()
	}
	logger.Request(req.Method, req.URL, req.Header.Get(constants.RequestIDHeader)).
		Warn("Request failed", "status", status, "error", err)
}

func (g *Gateway) request(ctx context.Context, result any) *resty.Request {
	req := g.client.R().SetContext(ctx)
	if result != nil {
		req.SetResult(result).ForceContentType("application/json")
	}
	return req
}

// execute sends req and turns any failure into a *models.RemoteError
func (g *Gateway) execute(req *resty.Request, method, path string) error {
	_, err := req.Execute(method, path)
	if err == nil {
		return nil
	}
	var rerr *models.RemoteError
	if errors.As(err, &rerr) {
		rerr.Path = path
		return rerr
	}
	return &models.RemoteError{Method: method, Path: path, Err: err}
}

func (g *Gateway) Get(ctx context.Context, path string, query url.Values, result any) error {
	req := g.request(ctx, result)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	return g.execute(req, http.MethodGet, path)
}

func (g *Gateway) Post(ctx context.Context, path string, body, result any) error {
	req := g.request(ctx, result)
	if body != nil {
		req.SetBody(body)
	}
	return g.execute(req, http.MethodPost, path)
}

func (g *Gateway) Put(ctx context.Context, path string, body, result any) error {
	return g.execute(g.request(ctx, result).SetBody(body), http.MethodPut, path)
}

func (g *Gateway) Delete(ctx context.Context, path string) error {
	return g.execute(g.request(ctx, nil), http.MethodDelete, path)
}

// Upload sends r as a multipart form file under field
func (g *Gateway) Upload(ctx context.Context, path, field, filename string, r io.Reader, result any) error {
	req := g.request(ctx, result).SetFileReader(field, filename, r)
	return g.execute(req, http.MethodPost, path)
}

// restyLogger routes resty's own diagnostics into the application log
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...interface{}) { logf(logger.Error, format, v...) }
func (restyLogger) Warnf(format string, v ...interface{})  { logf(logger.Warn, format, v...) }
func (restyLogger) Debugf(format string, v ...interface{}) { logf(logger.Debug, format, v...) }

func logf(fn func(string, ...interface{}), format string, v ...interface{}) {
	fn("resty", "msg", strings.TrimSpace(fmt.Sprintf(format, v...)))
}
