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

package chttp

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"

	internal "github.com/sofalabs/sofa/internal/errors"
)

// Server-supplied reason strings that refine 404 classification.
const (
	reasonNoDBFile          = "no_db_file"
	reasonMissingAttachment = "Document is missing attachment"
)

// HTTPError is an error returned for an HTTP response with an error status.
type HTTPError struct {
	// Response is the HTTP response received by the client. The response
	// body is already closed, but the response and request headers and
	// other metadata remain intact for debugging purposes.
	Response *http.Response `json:"-"`

	// ErrorType is the server-supplied short error name, such as
	// "not_found".
	ErrorType string `json:"error"`

	// Reason is the server-supplied error reason.
	Reason string `json:"reason"`
}

func (e *HTTPError) Error() string {
	if e.Reason == "" {
		return http.StatusText(e.HTTPStatus())
	}
	if statusText := http.StatusText(e.HTTPStatus()); statusText != "" {
		return fmt.Sprintf("%s: %s", statusText, e.Reason)
	}
	return e.Reason
}

// HTTPStatus returns the embedded status code.
func (e *HTTPError) HTTPStatus() int {
	return e.Response.StatusCode
}

// ErrorKind classifies the response into one of the defined error kinds.
// 404 responses are refined by the server-supplied reason: a missing
// database file and a missing attachment report distinct reasons, and
// everything else is a missing document.
func (e *HTTPError) ErrorKind() internal.Kind {
	switch e.HTTPStatus() {
	case http.StatusNotFound:
		switch e.Reason {
		case reasonNoDBFile:
			return internal.KindDatabaseNotFound
		case reasonMissingAttachment:
			return internal.KindAttachmentNotFound
		default:
			return internal.KindDocumentNotFound
		}
	case http.StatusConflict:
		return internal.KindConflict
	case http.StatusPreconditionFailed:
		return internal.KindPreconditionFailed
	default:
		return internal.KindServerError
	}
}

// ResponseError returns an error from an *http.Response if the status code
// indicates an error. It is the single classification chokepoint: every
// operation's failure path passes through here. A body that fails to parse
// as JSON is not an error by itself; classification then proceeds without
// the server's reason.
func ResponseError(resp *http.Response) error {
	if resp.StatusCode < 400 { // nolint:gomnd
		return nil
	}
	if resp.Body != nil {
		defer CloseBody(resp.Body)
	}
	httpErr := &HTTPError{
		Response: resp,
	}
	if resp.Request != nil && resp.Request.Method != http.MethodHead && resp.ContentLength != 0 {
		if ct, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); ct == typeJSON {
			_ = json.NewDecoder(resp.Body).Decode(httpErr)
		}
	}
	return &internal.Error{
		Status: resp.StatusCode,
		Kind:   httpErr.ErrorKind(),
		Err:    httpErr,
	}
}
