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
	"encoding/json"
	"net/http"

	"github.com/sofalabs/sofa/chttp"
)

// View is a map/reduce view definition.
type View struct {
	Map    string `json:"map"`
	Reduce string `json:"reduce,omitempty"`
}

// DesignDoc is a design document: a container for view and show
// definitions.
type DesignDoc struct {
	ID       string            `json:"_id,omitempty"`
	Rev      string            `json:"_rev,omitempty"`
	Language string            `json:"language,omitempty"`
	Views    map[string]View   `json:"views,omitempty"`
	Shows    map[string]string `json:"shows,omitempty"`
}

// ViewRow is a single row of a view result.
type ViewRow struct {
	ID    string          `json:"id"`
	Key   json.RawMessage `json:"key"`
	Value json.RawMessage `json:"value"`
	Doc   json.RawMessage `json:"doc,omitempty"`
}

// ViewResult is a view query response.
type ViewResult struct {
	TotalRows int64     `json:"total_rows"`
	Offset    int64     `json:"offset"`
	Rows      []ViewRow `json:"rows"`
}

const designPrefix = "_design/"

// ddocID normalizes a design document name to its full ID.
func ddocID(ddoc string) string {
	if len(ddoc) >= len(designPrefix) && ddoc[:len(designPrefix)] == designPrefix {
		return ddoc
	}
	return designPrefix + ddoc
}

// Query queries a view. The key, startkey and endkey params accept
// arbitrary JSON-encodable values; they are JSON-encoded before being
// added to the query string, as the server requires.
func (d *DB) Query(ctx context.Context, ddoc, view string, options ...Option) (*ViewResult, error) {
	if d.err != nil {
		return nil, d.err
	}
	if ddoc == "" {
		return nil, missingArg("ddoc")
	}
	if view == "" {
		return nil, missingArg("view")
	}
	chttpOpts, err := d.chttpOpts(options)
	if err != nil {
		return nil, err
	}
	result := &ViewResult{}
	path := d.path(chttp.EncodeDocID(ddocID(ddoc)) + "/_view/" + chttp.EncodeDocID(view))
	err = d.client.DoJSON(ctx, http.MethodGet, path, chttpOpts, result)
	return result, err
}

// AllDocs returns the database's primary index, one row per document.
func (d *DB) AllDocs(ctx context.Context, options ...Option) (*ViewResult, error) {
	if d.err != nil {
		return nil, d.err
	}
	chttpOpts, err := d.chttpOpts(options)
	if err != nil {
		return nil, err
	}
	result := &ViewResult{}
	err = d.client.DoJSON(ctx, http.MethodGet, d.path("_all_docs"), chttpOpts, result)
	return result, err
}

// TempView executes a temporary, unindexed view. Temporary views are slow
// and intended for development only; define a view in a design document
// for production use.
func (d *DB) TempView(ctx context.Context, view View, options ...Option) (*ViewResult, error) {
	if d.err != nil {
		return nil, d.err
	}
	if view.Map == "" {
		return nil, missingArg("view.Map")
	}
	chttpOpts, err := d.chttpOpts(options)
	if err != nil {
		return nil, err
	}
	chttpOpts.GetBody = chttp.BodyEncoder(view)
	result := &ViewResult{}
	err = d.client.DoJSON(ctx, http.MethodPost, d.path("_temp_view"), chttpOpts, result)
	return result, err
}

// GetDesign fetches a design document.
func (d *DB) GetDesign(ctx context.Context, ddoc string, options ...Option) (*DesignDoc, error) {
	design := &DesignDoc{}
	if _, err := d.Get(ctx, ddocID(ddoc), design, options...); err != nil {
		return nil, err
	}
	return design, nil
}

// Views returns the view definitions of a design document, keyed by view
// name.
func (d *DB) Views(ctx context.Context, ddoc string, options ...Option) (map[string]View, error) {
	design, err := d.GetDesign(ctx, ddoc, options...)
	if err != nil {
		return nil, err
	}
	return design.Views, nil
}

// PutView adds or replaces a named view in a design document, and returns
// the design document's new revision. If the design document does not yet
// exist, it is created with the single view. This is a read-modify-write
// with a create-on-missing fallback, not an atomic upsert: a concurrent
// writer surfaces as a conflict, which the caller may handle by retrying.
func (d *DB) PutView(ctx context.Context, ddoc, name string, view View) (rev string, err error) {
	if d.err != nil {
		return "", d.err
	}
	if name == "" {
		return "", missingArg("name")
	}
	id := ddocID(ddoc)
	design, err := d.GetDesign(ctx, ddoc)
	switch {
	case err == nil:
	case IsDocumentNotFound(err):
		design = &DesignDoc{ID: id, Language: "javascript"}
	default:
		return "", err
	}
	if design.Views == nil {
		design.Views = make(map[string]View, 1)
	}
	design.Views[name] = view
	design.ID = id
	return d.Put(ctx, id, design)
}

// DeleteView removes a named view from a design document, and returns the
// design document's new revision. Removing the last view leaves an empty
// design document in place.
func (d *DB) DeleteView(ctx context.Context, ddoc, name string) (rev string, err error) {
	if d.err != nil {
		return "", d.err
	}
	if name == "" {
		return "", missingArg("name")
	}
	design, err := d.GetDesign(ctx, ddoc)
	if err != nil {
		return "", err
	}
	if _, ok := design.Views[name]; !ok {
		return design.Rev, nil
	}
	delete(design.Views, name)
	return d.Put(ctx, ddocID(ddoc), design)
}
