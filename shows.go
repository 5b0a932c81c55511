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

package sofa

import (
	"context"
	"io"
	"net/http"

	"github.com/sofalabs/sofa/chttp"
	internal "github.com/sofalabs/sofa/internal/errors"
)

// ShowResult is the rendered output of a show function. Shows commonly
// produce non-JSON representations, so the body is returned raw alongside
// its content type.
type ShowResult struct {
	ContentType string
	Body        []byte
}

// Show renders a document through a design document's show function. Pass
// an empty docID to invoke the show function without a document.
func (d *DB) Show(ctx context.Context, ddoc, show, docID string, options ...Option) (*ShowResult, error) {
	if d.err != nil {
		return nil, d.err
	}
	if ddoc == "" {
		return nil, missingArg("ddoc")
	}
	if show == "" {
		return nil, missingArg("show")
	}
	chttpOpts, err := d.chttpOpts(options)
	if err != nil {
		return nil, err
	}
	chttpOpts.Accept = "*/*"
	path := d.path(chttp.EncodeDocID(ddocID(ddoc)) + "/_show/" + chttp.EncodeDocID(show))
	if docID != "" {
		path += "/" + chttp.EncodeDocID(docID)
	}
	resp, err := d.client.DoReq(ctx, http.MethodGet, path, chttpOpts)
	if err != nil {
		return nil, err
	}
	defer chttp.CloseBody(resp.Body)
	if err := chttp.ResponseError(resp); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &internal.Error{Status: http.StatusBadGateway, Err: err}
	}
	return &ShowResult{
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
