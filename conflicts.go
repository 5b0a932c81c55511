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
	"fmt"

	"github.com/cenkalti/backoff/v4"
)

// Conflicts returns the revisions conflicting with the current revision of
// a document. An empty result means the document has no conflicts.
func (d *DB) Conflicts(ctx context.Context, docID string, options ...Option) ([]string, error) {
	var doc struct {
		Conflicts []string `json:"_conflicts"`
	}
	opts := append([]Option{Param("conflicts", true)}, options...)
	if _, err := d.Get(ctx, docID, &doc, opts...); err != nil {
		return nil, err
	}
	return doc.Conflicts, nil
}

// MergeFunc combines the current revision of a document with a conflicting
// one, and returns the document to store as the resolution. Both inputs
// are the raw document bodies.
type MergeFunc func(current, conflict json.RawMessage) (interface{}, error)

// PartialResolutionError is returned by ResolveConflict when the merged
// document was written but the superseded conflicting revision could not
// be deleted. The conflict remains visible until the revision is deleted;
// re-issuing the delete is safe.
type PartialResolutionError struct {
	// Rev is the revision assigned to the merged document. The write
	// succeeded; only the cleanup failed.
	Rev string

	// ConflictRev is the revision that remains undeleted.
	ConflictRev string

	// Err is the error returned by the delete.
	Err error
}

func (e *PartialResolutionError) Error() string {
	return fmt.Sprintf("conflict resolved as rev %s, but deleting conflicting rev %s failed: %s", e.Rev, e.ConflictRev, e.Err)
}

// Unwrap satisfies the errors wrapper interface.
func (e *PartialResolutionError) Unwrap() error {
	return e.Err
}

// ResolveConflict resolves a single conflicting revision of a document: it
// fetches both the current revision and the conflicting one, asks merge
// for the combined document, writes the result as a new revision, then
// deletes the superseded conflicting revision. It returns the revision
// assigned to the merged document.
//
// There is no transaction across the two writes. If the delete fails after
// the merge was written, a *PartialResolutionError is returned; pass
// OptionDeleteRetry to retry the delete with exponential backoff before
// giving up. A delete that finds the revision already gone counts as
// success.
func (d *DB) ResolveConflict(ctx context.Context, docID, conflictRev string, merge MergeFunc, options ...Option) (rev string, err error) {
	if d.err != nil {
		return "", d.err
	}
	if docID == "" {
		return "", missingArg("docID")
	}
	if conflictRev == "" {
		return "", missingArg("conflictRev")
	}
	if merge == nil {
		return "", missingArg("merge")
	}
	var resolveOpts resolveOptions
	allOptions(options).Apply(&resolveOpts)

	var conflict, current json.RawMessage
	if _, err := d.Get(ctx, docID, &conflict, Rev(conflictRev)); err != nil {
		return "", err
	}
	currentRev, err := d.Get(ctx, docID, &current)
	if err != nil {
		return "", err
	}

	merged, err := merge(current, conflict)
	if err != nil {
		return "", err
	}
	rev, err = d.Put(ctx, docID, merged, Rev(currentRev))
	if err != nil {
		return "", err
	}

	if err := d.deleteConflictRev(ctx, docID, conflictRev, resolveOpts.deleteRetries); err != nil {
		return rev, &PartialResolutionError{
			Rev:         rev,
			ConflictRev: conflictRev,
			Err:         err,
		}
	}
	return rev, nil
}

// deleteConflictRev deletes one revision of a document, optionally
// retrying. The operation is idempotent: a not-found result means the
// revision is already gone.
func (d *DB) deleteConflictRev(ctx context.Context, docID, rev string, retries uint64) error {
	del := func() error {
		_, err := d.Delete(ctx, docID, rev)
		if IsDocumentNotFound(err) {
			return nil
		}
		return err
	}
	if retries == 0 {
		return del()
	}
	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), retries),
		ctx,
	)
	return backoff.Retry(del, bo)
}
