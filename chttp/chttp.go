// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//  http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

// Package chttp is the HTTP transport underlying the sofa client. It
// performs exactly one HTTP exchange per invocation, with no retries. An
// HTTP error status is not an error at this layer; callers classify
// responses with ResponseError.
package chttp

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"sync"

	internal "github.com/sofalabs/sofa/internal/errors"
)

const typeJSON = "application/json"

// The default UserAgent values.
const (
	UserAgent = "Sofa"
	Version   = "1.0.0"
)

// Client represents a client connection. It embeds an *http.Client.
type Client struct {
	// UserAgents is appended to the User-Agent header. Typically it
	// contains pairs of product name and version.
	UserAgents []string

	*http.Client

	rawDSN   string
	dsn      *url.URL
	basePath string
	auth     Authenticator
	authMU   sync.Mutex

	// noGzip disables gzip-encoding of request bodies.
	noGzip bool
}

// New returns a connection to a CouchDB server. If credentials are included
// in the URL, requests will be authenticated using Cookie Auth. To use HTTP
// BasicAuth or another mechanism, omit credentials from the URL and call
// the Auth method instead.
func New(client *http.Client, dsn string) (*Client, error) {
	dsnURL, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}
	user := dsnURL.User
	dsnURL.User = nil
	if client == nil {
		client = &http.Client{}
	}
	c := &Client{
		Client:   client,
		dsn:      dsnURL,
		basePath: strings.TrimSuffix(dsnURL.Path, "/"),
		rawDSN:   dsn,
	}
	if user != nil {
		password, _ := user.Password()
		err := c.Auth(&CookieAuth{
			Username: user.Username(),
			Password: password,
		})
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

func parseDSN(dsn string) (*url.URL, error) {
	if dsn == "" {
		return nil, &internal.Error{Status: http.StatusBadRequest, Message: "no URL specified"}
	}
	if !strings.HasPrefix(dsn, "http://") && !strings.HasPrefix(dsn, "https://") {
		dsn = "http://" + dsn
	}
	dsnURL, err := url.Parse(dsn)
	if err != nil {
		return nil, &internal.Error{Status: http.StatusBadRequest, Err: err}
	}
	if dsnURL.Path == "" {
		dsnURL.Path = "/"
	}
	return dsnURL, nil
}

// DSN returns the unparsed DSN used to connect.
func (c *Client) DSN() string {
	return c.rawDSN
}

// DisableRequestCompression turns off gzip encoding of request bodies.
func (c *Client) DisableRequestCompression() {
	c.noGzip = true
}

// Authenticator is the interface implemented by authentication mechanisms.
type Authenticator interface {
	Authenticate(c *Client) error
}

// Auth authenticates using the provided Authenticator.
func (c *Client) Auth(a Authenticator) error {
	if c.auth != nil {
		return errors.New("auth already set")
	}
	if err := a.Authenticate(c); err != nil {
		return err
	}
	c.auth = a
	return nil
}

// DecodeJSON unmarshals the response body into i. This function consumes
// and closes the response body.
func DecodeJSON(r *http.Response, i interface{}) error {
	defer CloseBody(r.Body)
	if err := json.NewDecoder(r.Body).Decode(i); err != nil {
		return &internal.Error{Status: http.StatusBadGateway, Err: err}
	}
	return nil
}

// DoJSON combines [Client.DoReq], [ResponseError], and [DecodeJSON], and
// closes the response body.
func (c *Client) DoJSON(ctx context.Context, method, path string, opts *Options, i interface{}) error {
	res, err := c.DoReq(ctx, method, path, opts)
	if err != nil {
		return err
	}
	if res.Body != nil {
		defer CloseBody(res.Body)
	}
	if err = ResponseError(res); err != nil {
		return err
	}
	return DecodeJSON(res, i)
}

func (c *Client) path(path string) string {
	if c.basePath != "" {
		return c.basePath + "/" + strings.TrimPrefix(path, "/")
	}
	return path
}

// fullPathMatches returns true if the target resolves to match path.
func (c *Client) fullPathMatches(path, target string) bool {
	p, err := url.Parse(path)
	if err != nil {
		// should be impossible
		return false
	}
	p.RawQuery = ""
	t := new(url.URL)
	*t = *c.dsn // shallow copy
	t.Path = c.path(target)
	t.RawQuery = ""
	return t.String() == p.String()
}

// NewRequest returns a new *http.Request to the CouchDB server, and the
// specified path. The host, schema, etc, of the specified path are ignored.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader, opts *Options) (*http.Request, error) {
	fullPath := c.path(path)
	reqPath, err := url.Parse(fullPath)
	if err != nil {
		return nil, &internal.Error{Status: http.StatusBadRequest, Err: err}
	}
	u := *c.dsn // Make a copy
	u.Path = reqPath.Path
	u.RawQuery = reqPath.RawQuery
	compress, body := c.compressBody(u.String(), body, opts)
	req, err := http.NewRequest(method, u.String(), body)
	if err != nil {
		return nil, &internal.Error{Status: http.StatusBadRequest, Err: err}
	}
	if compress {
		req.Header.Add("Content-Encoding", "gzip")
	}
	req.Header.Add("User-Agent", c.userAgent())
	return req.WithContext(ctx), nil
}

func (c *Client) shouldCompressBody(path string, body io.Reader, opts *Options) bool {
	if c.noGzip || (opts != nil && opts.NoGzip) {
		return false
	}
	// /_session only supports compression from CouchDB 3.2.
	if c.fullPathMatches(path, "/_session") {
		return false
	}
	return body != nil
}

// compressBody compresses body with gzip compression if appropriate. It
// returns true and the compressed stream, or false and the unaltered
// stream.
func (c *Client) compressBody(path string, body io.Reader, opts *Options) (bool, io.Reader) {
	if !c.shouldCompressBody(path, body, opts) {
		return false, body
	}
	r, w := io.Pipe()
	go func() {
		if closer, ok := body.(io.Closer); ok {
			defer closer.Close()
		}
		gz := gzip.NewWriter(w)
		_, err := io.Copy(gz, body)
		gz.Close()
		w.CloseWithError(err)
	}()
	return true, r
}

// DoReq does an HTTP request. An error is returned only if there was an
// error processing the request. In particular, an error status code, such
// as 400 or 500, does _not_ cause an error to be returned.
func (c *Client) DoReq(ctx context.Context, method, path string, opts *Options) (*http.Response, error) {
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if opts != nil {
		if opts.GetBody != nil {
			var err error
			opts.Body, err = opts.GetBody()
			if err != nil {
				return nil, err
			}
		}
		if opts.Body != nil {
			body = opts.Body
			defer opts.Body.Close() // nolint: errcheck
		}
	}
	req, err := c.NewRequest(ctx, method, path, body, opts)
	if err != nil {
		return nil, err
	}
	fixPath(req, path)
	setHeaders(req, opts)
	setQuery(req, opts)
	if opts != nil {
		req.GetBody = opts.GetBody
	}

	trace := ContextClientTrace(ctx)
	if trace != nil {
		trace.httpRequest(req)
		trace.httpRequestBody(req)
	}

	response, err := c.Do(req)
	if trace != nil {
		trace.httpResponse(response)
		trace.httpResponseBody(response)
	}
	return response, netError(err)
}

// netError wraps connection-level failures. They are not classified
// further; the original error remains reachable through Unwrap.
func netError(err error) error {
	if err == nil {
		return nil
	}
	return &internal.Error{
		Status: http.StatusBadGateway,
		Kind:   internal.KindNetwork,
		Err:    err,
	}
}

// fixPath sets the request's URL.RawPath to work with escaped characters in
// paths.
func fixPath(req *http.Request, path string) {
	// Remove any query parameters
	parts := strings.SplitN(path, "?", 2) // nolint:gomnd
	req.URL.RawPath = "/" + strings.TrimPrefix(parts[0], "/")
}

// BodyEncoder returns a function which returns the encoded body. It is
// meant to be used as a http.Request.GetBody value.
func BodyEncoder(i interface{}) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return EncodeBody(i), nil
	}
}

// EncodeBody JSON encodes i to an io.ReadCloser. If an encoding error
// occurs, it will be returned on the next read.
func EncodeBody(i interface{}) io.ReadCloser {
	done := make(chan struct{})
	r, w := io.Pipe()
	go func() {
		defer close(done)
		var err error
		switch t := i.(type) {
		case []byte:
			_, err = w.Write(t)
		case json.RawMessage:
			_, err = w.Write(t)
		case string:
			_, err = w.Write([]byte(t))
		default:
			err = json.NewEncoder(w).Encode(i)
			switch err.(type) {
			case *json.MarshalerError, *json.UnsupportedTypeError, *json.UnsupportedValueError:
				err = &internal.Error{Status: http.StatusBadRequest, Err: err}
			}
		}
		_ = w.CloseWithError(err)
	}()
	return &ebReader{
		ReadCloser: r,
		done:       done,
	}
}

type ebReader struct {
	io.ReadCloser
	done <-chan struct{}
}

var _ io.ReadCloser = &ebReader{}

func (r *ebReader) Close() error {
	err := r.ReadCloser.Close()
	<-r.done
	return err
}

func setHeaders(req *http.Request, opts *Options) {
	accept := typeJSON
	contentType := typeJSON
	if opts != nil {
		if opts.Accept != "" {
			accept = opts.Accept
		}
		if opts.ContentType != "" {
			contentType = opts.ContentType
		}
		if opts.IfNoneMatch != "" {
			inm := "\"" + strings.Trim(opts.IfNoneMatch, "\"") + "\""
			req.Header.Set("If-None-Match", inm)
		}
		if opts.ContentLength != 0 {
			req.ContentLength = opts.ContentLength
		}
		for k, v := range opts.Header {
			if _, ok := req.Header[k]; !ok {
				req.Header[k] = v
			}
		}
	}
	req.Header.Add("Accept", accept)
	req.Header.Add("Content-Type", contentType)
}

func setQuery(req *http.Request, opts *Options) {
	if opts == nil || len(opts.Query) == 0 {
		return
	}
	if req.URL.RawQuery == "" {
		req.URL.RawQuery = opts.Query.Encode()
		return
	}
	req.URL.RawQuery = strings.Join([]string{req.URL.RawQuery, opts.Query.Encode()}, "&")
}

// DoError is the same as DoReq, followed by checking the response error.
// This method is meant for cases where the only information needed from
// the response is the status code. It unconditionally closes the response
// body.
func (c *Client) DoError(ctx context.Context, method, path string, opts *Options) (*http.Response, error) {
	res, err := c.DoReq(ctx, method, path, opts)
	if err != nil {
		return res, err
	}
	if res.Body != nil {
		defer CloseBody(res.Body)
	}
	err = ResponseError(res)
	return res, err
}

// CloseBody drains and closes a response body, to allow the underlying
// connection to be reused.
func CloseBody(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}

// ETag returns the unquoted ETag value, and a bool indicating whether it
// was found.
func ETag(resp *http.Response) (string, bool) {
	if resp == nil {
		return "", false
	}
	etag, ok := resp.Header["Etag"]
	if !ok {
		etag, ok = resp.Header["ETag"] // nolint: staticcheck
	}
	if !ok {
		return "", false
	}
	return strings.Trim(etag[0], `"`), ok
}

// GetRev extracts the revision from the response's ETag header, falling
// back to scanning the body for a _rev field.
func GetRev(resp *http.Response) (rev string, err error) {
	if err = ResponseError(resp); err != nil {
		return "", err
	}
	rev, ok := ETag(resp)
	if ok {
		return rev, nil
	}
	if resp == nil || resp.Request == nil || resp.Request.Method == http.MethodHead {
		return "", errors.New("unable to determine document revision")
	}
	resp.Body, rev, err = ExtractRev(resp.Body)
	return rev, err
}

// ExtractRev reads the _rev field from the JSON stream in rc, and returns a
// replacement io.ReadCloser from which the complete stream can still be
// read, along with the discovered revision. CouchDB tends to send the _id
// and _rev fields first, so normally only a small prefix is buffered.
func ExtractRev(rc io.ReadCloser) (io.ReadCloser, string, error) {
	buf := &bytes.Buffer{}
	rev, err := readRev(io.TeeReader(rc, buf))
	replacement := struct {
		io.Reader
		io.Closer
	}{
		Reader: io.MultiReader(buf, rc),
		Closer: rc,
	}
	if err != nil {
		return replacement, "", fmt.Errorf("unable to determine document revision: %w", err)
	}
	return replacement, rev, nil
}

// readRev searches r for a `_rev` field, and returns its value without
// reading the rest of the JSON stream.
func readRev(r io.Reader) (string, error) {
	dec := json.NewDecoder(r)
	tk, err := dec.Token()
	if err != nil {
		return "", err
	}
	if tk != json.Delim('{') {
		return "", fmt.Errorf("expected %q token, found %q", '{', tk)
	}
	for dec.More() {
		tk, err = dec.Token()
		if err != nil {
			return "", err
		}
		if tk == "_rev" {
			tk, err = dec.Token()
			if err != nil {
				return "", err
			}
			if value, ok := tk.(string); ok {
				return value, nil
			}
			return "", fmt.Errorf("found %q in place of _rev value", tk)
		}
		// Skip the value.
		var discard json.RawMessage
		if err := dec.Decode(&discard); err != nil {
			return "", err
		}
	}

	return "", errors.New("_rev key not found in response body")
}

func (c *Client) userAgent() string {
	ua := fmt.Sprintf("%s/%s (Language=%s; Platform=%s/%s)",
		UserAgent, Version, runtime.Version(), runtime.GOARCH, runtime.GOOS)
	return strings.Join(append([]string{ua}, c.UserAgents...), " ")
}
