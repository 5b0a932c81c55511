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
	"encoding/json"
	"errors"

	"context"
	"net/http"

	"github.com/sofalabs/sofa/chttp"
	internal "github.com/sofalabs/sofa/internal/errors"
)

// BulkResult is the result of storing one document in a bulk update.
type BulkResult struct {
	// ID and Rev identify the stored document.
	ID  string
	Rev string

	// Doc is the corresponding input document with the assigned _id and
	// _rev fields merged in. It is only set when the entry succeeded.
	Doc json.RawMessage

	// Error is set when this document was rejected, for example with a
	// conflict. Other documents in the same batch may still have
	// succeeded.
	Error error
}

// BulkDocs stores a batch of documents in a single request, and returns
// one result per input document. Results are paired with inputs by
// position: the server responds in submission order. (Order preservation
// is a server contract; a server that reorders its response would
// mis-attribute ids and revs.)
func (d *DB) BulkDocs(ctx context.Context, docs []interface{}, options ...Option) ([]BulkResult, error) {
	if d.err != nil {
		return nil, d.err
	}
	if len(docs) == 0 {
		return nil, missingArg("docs")
	}
	body := map[string]interface{}{}
	allOptions(options).Apply(body)
	body["docs"] = docs
	opts := &chttp.Options{
		GetBody: chttp.BodyEncoder(body),
	}

	resp, err := d.client.DoReq(ctx, http.MethodPost, d.path("_bulk_docs"), opts)
	if err != nil {
		return nil, err
	}
	defer chttp.CloseBody(resp.Body)
	if err := chttp.ResponseError(resp); err != nil {
		return nil, err
	}
	var rows []bulkRow
	if err := chttp.DecodeJSON(resp, &rows); err != nil {
		return nil, err
	}
	results := make([]BulkResult, len(rows))
	for i, row := range rows {
		results[i] = BulkResult{
			ID:    row.ID,
			Rev:   row.Rev,
			Error: row.Error,
		}
		if row.Error != nil || i >= len(docs) {
			continue
		}
		merged, err := mergeIDRev(docs[i], row.ID, row.Rev)
		if err != nil {
			return nil, err
		}
		results[i].Doc = merged
	}
	return results, nil
}

type bulkRow struct {
	ID    string `json:"id"`
	Rev   string `json:"rev"`
	Error error
}

func (r *bulkRow) UnmarshalJSON(p []byte) error {
	target := struct {
		*bulkRow
		Error         string `json:"error"`
		Reason        string `json:"reason"`
		UnmarshalJSON struct{}
	}{
		bulkRow: r,
	}
	if err := json.Unmarshal(p, &target); err != nil {
		return err
	}
	switch target.Error {
	case "":
		// No error
	case "conflict":
		r.Error = &internal.Error{Status: http.StatusConflict, Kind: internal.KindConflict, Err: errors.New(target.Reason)}
	default:
		r.Error = &internal.Error{Status: http.StatusInternalServerError, Kind: internal.KindServerError, Message: target.Error, Err: errors.New(target.Reason)}
	}
	return nil
}

// mergeIDRev re-encodes doc with the _id and _rev fields set.
func mergeIDRev(doc interface{}, id, rev string) (json.RawMessage, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, &internal.Error{Status: http.StatusBadRequest, Err: err}
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &internal.Error{Status: http.StatusBadRequest, Err: err}
	}
	if id != "" {
		fields["_id"], _ = json.Marshal(id)
	}
	if rev != "" {
		fields["_rev"], _ = json.Marshal(rev)
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return nil, &internal.Error{Status: http.StatusBadRequest, Err: err}
	}
	return merged, nil
}
