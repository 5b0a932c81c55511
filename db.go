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

	"github.com/google/uuid"

	"github.com/sofalabs/sofa/chttp"
	internal "github.com/sofalabs/sofa/internal/errors"
)

// DB is a handle to a single database. Obtain one from [Client.DB]. A DB
// holds no state beyond its name; it is safe for concurrent use.
type DB struct {
	client  *Client
	dbName  string
	escaped string
	err     error
}

// Name returns the database name as passed to [Client.DB].
func (d *DB) Name() string {
	return d.dbName
}

// Err returns the validation error for the database name, if any.
func (d *DB) Err() error {
	return d.err
}

func (d *DB) path(path string) string {
	if path == "" {
		return d.escaped
	}
	return d.escaped + "/" + path
}

func (d *DB) chttpOpts(options []Option) (*chttp.Options, error) {
	opts := map[string]interface{}{}
	allOptions(options).Apply(opts)
	query, err := optionsToParams(opts)
	if err != nil {
		return nil, err
	}
	return &chttp.Options{Query: query}, nil
}

// Get fetches the requested document, unmarshaling its body into dest, and
// returns the document's revision. Pass Rev or other Params to fetch a
// specific revision or request extra metadata.
func (d *DB) Get(ctx context.Context, docID string, dest interface{}, options ...Option) (string, error) {
	resp, err := d.get(ctx, http.MethodGet, docID, options)
	if err != nil {
		return "", err
	}
	defer chttp.CloseBody(resp.Body)
	body, rev, err := chttp.ExtractRev(resp.Body)
	if err != nil {
		return "", err
	}
	if dest != nil {
		if err := json.NewDecoder(body).Decode(dest); err != nil {
			return "", &internal.Error{Status: http.StatusBadGateway, Err: err}
		}
	}
	return rev, nil
}

// GetRev returns the current revision of the requested document, using a
// HEAD request.
func (d *DB) GetRev(ctx context.Context, docID string, options ...Option) (string, error) {
	resp, err := d.get(ctx, http.MethodHead, docID, options)
	if err != nil {
		return "", err
	}
	_ = resp.Body.Close()
	rev, ok := chttp.ETag(resp)
	if !ok {
		return "", &internal.Error{Status: http.StatusBadGateway, Message: "sofa: unable to determine document revision"}
	}
	return rev, nil
}

func (d *DB) get(ctx context.Context, method, docID string, options []Option) (*http.Response, error) {
	if d.err != nil {
		return nil, d.err
	}
	if docID == "" {
		return nil, missingArg("docID")
	}
	chttpOpts, err := d.chttpOpts(options)
	if err != nil {
		return nil, err
	}
	resp, err := d.client.DoReq(ctx, method, d.path(chttp.EncodeDocID(docID)), chttpOpts)
	if err != nil {
		return nil, err
	}
	return resp, chttp.ResponseError(resp)
}

// CreateDoc creates a new document with a server-generated ID, and returns
// the assigned ID and revision. With OptionClientIDs, the ID is a UUID
// generated locally and the document is stored with a PUT instead.
func (d *DB) CreateDoc(ctx context.Context, doc interface{}, options ...Option) (docID, rev string, err error) {
	if d.err != nil {
		return "", "", d.err
	}
	var createOpts createDocOptions
	allOptions(options).Apply(&createOpts)
	if createOpts.clientIDs {
		docID = uuid.NewString()
		rev, err = d.Put(ctx, docID, doc, options...)
		return docID, rev, err
	}

	opts := map[string]interface{}{}
	allOptions(options).Apply(opts)
	query, err := optionsToParams(opts)
	if err != nil {
		return "", "", err
	}
	chttpOpts := &chttp.Options{
		Query: query,
		Body:  chttp.EncodeBody(doc),
	}
	var result struct {
		ID  string `json:"id"`
		Rev string `json:"rev"`
	}
	err = d.client.DoJSON(ctx, http.MethodPost, d.path(""), chttpOpts, &result)
	return result.ID, result.Rev, err
}

// Put stores doc under docID, and returns the new revision. The revision
// of the document being replaced is taken from the "rev" param, or from
// the document's _rev field. When neither is present and the document
// already exists, the current revision is first fetched with a read; a
// concurrent writer between that read and the write surfaces as a
// conflict, which the caller may handle by retrying.
func (d *DB) Put(ctx context.Context, docID string, doc interface{}, options ...Option) (rev string, err error) {
	if d.err != nil {
		return "", d.err
	}
	if docID == "" {
		return "", missingArg("docID")
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return "", &internal.Error{Status: http.StatusBadRequest, Err: err}
	}
	opts := map[string]interface{}{}
	allOptions(options).Apply(opts)
	if _, ok := opts["rev"]; !ok {
		var meta struct {
			Rev string `json:"_rev"`
		}
		_ = json.Unmarshal(body, &meta)
		if meta.Rev == "" {
			switch currentRev, err := d.GetRev(ctx, docID); {
			case err == nil:
				opts["rev"] = currentRev
			case KindOf(err) == KindDocumentNotFound:
				// New document; no revision needed.
			default:
				return "", err
			}
		}
	}
	query, err := optionsToParams(opts)
	if err != nil {
		return "", err
	}
	chttpOpts := &chttp.Options{
		Query: query,
		Body:  chttp.EncodeBody(json.RawMessage(body)),
	}
	var result struct {
		Rev string `json:"rev"`
	}
	err = d.client.DoJSON(ctx, http.MethodPut, d.path(chttp.EncodeDocID(docID)), chttpOpts, &result)
	if err != nil {
		return "", err
	}
	return result.Rev, nil
}

// Delete marks the document as deleted and returns the tombstone revision.
// The revision of the document being deleted is required.
func (d *DB) Delete(ctx context.Context, docID, rev string, options ...Option) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	if docID == "" {
		return "", missingArg("docID")
	}
	if rev == "" {
		return "", missingArg("rev")
	}
	opts := map[string]interface{}{}
	allOptions(options).Apply(opts)
	opts["rev"] = rev
	query, err := optionsToParams(opts)
	if err != nil {
		return "", err
	}
	resp, err := d.client.DoReq(ctx, http.MethodDelete, d.path(chttp.EncodeDocID(docID)), &chttp.Options{Query: query})
	if err != nil {
		return "", err
	}
	defer chttp.CloseBody(resp.Body)
	return chttp.GetRev(resp)
}

// Revision describes one entry of a document's revision history.
type Revision struct {
	Rev    string `json:"rev"`
	Status string `json:"status"` // "available", "missing" or "deleted"
}

// Revisions returns the revision history of a document, newest first.
func (d *DB) Revisions(ctx context.Context, docID string, options ...Option) ([]Revision, error) {
	var doc struct {
		RevsInfo []Revision `json:"_revs_info"`
	}
	opts := append([]Option{Param("revs_info", true)}, options...)
	if _, err := d.Get(ctx, docID, &doc, opts...); err != nil {
		return nil, err
	}
	return doc.RevsInfo, nil
}

// Compact starts compaction of the database. The server runs compaction in
// the background; this call returns as soon as it is accepted.
func (d *DB) Compact(ctx context.Context) error {
	if d.err != nil {
		return d.err
	}
	res, err := d.client.DoReq(ctx, http.MethodPost, d.path("_compact"), nil)
	if err != nil {
		return err
	}
	defer chttp.CloseBody(res.Body)
	return chttp.ResponseError(res)
}

// CompactView starts compaction of the named design document's view
// indexes.
func (d *DB) CompactView(ctx context.Context, ddocID string) error {
	if d.err != nil {
		return d.err
	}
	if ddocID == "" {
		return missingArg("ddocID")
	}
	res, err := d.client.DoReq(ctx, http.MethodPost, d.path("_compact/"+ddocID), nil)
	if err != nil {
		return err
	}
	defer chttp.CloseBody(res.Body)
	return chttp.ResponseError(res)
}

// ViewCleanup removes view index files no longer required by any design
// document.
func (d *DB) ViewCleanup(ctx context.Context) error {
	if d.err != nil {
		return d.err
	}
	res, err := d.client.DoReq(ctx, http.MethodPost, d.path("_view_cleanup"), nil)
	if err != nil {
		return err
	}
	defer chttp.CloseBody(res.Body)
	return chttp.ResponseError(res)
}

// Flush instructs the server to commit any uncommitted data to disk.
func (d *DB) Flush(ctx context.Context) error {
	if d.err != nil {
		return d.err
	}
	_, err := d.client.DoError(ctx, http.MethodPost, d.path("_ensure_full_commit"), nil)
	return err
}

// Security holds the database security object.
type Security struct {
	Admins  SecurityMembers `json:"admins"`
	Members SecurityMembers `json:"members"`
}

// SecurityMembers names users and roles.
type SecurityMembers struct {
	Names []string `json:"names,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// Security returns the database's security object.
func (d *DB) Security(ctx context.Context) (*Security, error) {
	if d.err != nil {
		return nil, d.err
	}
	sec := &Security{}
	err := d.client.DoJSON(ctx, http.MethodGet, d.path("_security"), nil, sec)
	return sec, err
}

// SetSecurity replaces the database's security object.
func (d *DB) SetSecurity(ctx context.Context, security *Security) error {
	if d.err != nil {
		return d.err
	}
	if security == nil {
		return missingArg("security")
	}
	opts := &chttp.Options{
		GetBody: chttp.BodyEncoder(security),
	}
	res, err := d.client.DoReq(ctx, http.MethodPut, d.path("_security"), opts)
	if err != nil {
		return err
	}
	defer chttp.CloseBody(res.Body)
	return chttp.ResponseError(res)
}
