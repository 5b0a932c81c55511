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
	"io"
	"net/http"
	"net/url"
)

// Options are optional parameters which may be sent with a request.
type Options struct {
	// Accept sets the request's Accept header. Defaults to
	// "application/json". To specify any, use "*/*".
	Accept string

	// ContentType sets the request's Content-Type header. Defaults to
	// "application/json".
	ContentType string

	// ContentLength, if set, sets the ContentLength of the request.
	ContentLength int64

	// Body sets the body of the request.
	Body io.ReadCloser

	// GetBody is a function to set the body, and can be used on redirects.
	// If set, Body is ignored.
	GetBody func() (io.ReadCloser, error)

	// IfNoneMatch adds the If-None-Match header. The value will be quoted
	// if it is not already.
	IfNoneMatch string

	// Query is appended to the existing url, if present. If the passed url
	// already contains query parameters, the values in Query are appended.
	// No merging takes place.
	Query url.Values

	// Header is a list of default headers to be set on the request.
	Header http.Header

	// NoGzip disables gzip compression on the request body.
	NoGzip bool
}
