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
	internal "github.com/sofalabs/sofa/internal/errors"
)

// Kind classifies an error into one of a closed set of conditions.
type Kind = internal.Kind

// The complete set of error kinds an operation can return. Every HTTP
// status >= 400 maps to exactly one of these; connection-level failures
// map to KindNetwork.
const (
	KindUnknown            = internal.KindUnknown
	KindInvalidDBName      = internal.KindInvalidDBName
	KindDatabaseNotFound   = internal.KindDatabaseNotFound
	KindDocumentNotFound   = internal.KindDocumentNotFound
	KindAttachmentNotFound = internal.KindAttachmentNotFound
	KindConflict           = internal.KindConflict
	KindPreconditionFailed = internal.KindPreconditionFailed
	KindServerError        = internal.KindServerError
	KindNetwork            = internal.KindNetwork
)

// HTTPStatus returns the HTTP status code embedded in the error, or 500
// (internal server error) if there was no embedded status code.
func HTTPStatus(err error) int {
	return internal.HTTPStatus(err)
}

// KindOf returns the error kind embedded in the error, or KindUnknown.
func KindOf(err error) Kind {
	return internal.KindOf(err)
}

// IsDatabaseNotFound returns true if the error is the result of a request
// against a database that does not exist.
func IsDatabaseNotFound(err error) bool {
	return internal.KindOf(err) == internal.KindDatabaseNotFound
}

// IsDocumentNotFound returns true if the error is the result of a request
// for a document that does not exist.
func IsDocumentNotFound(err error) bool {
	return internal.KindOf(err) == internal.KindDocumentNotFound
}

// IsAttachmentNotFound returns true if the error is the result of a request
// for an attachment that does not exist.
func IsAttachmentNotFound(err error) bool {
	return internal.KindOf(err) == internal.KindAttachmentNotFound
}

// IsConflict returns true if the error is the result of a document update
// conflict (HTTP 409).
func IsConflict(err error) bool {
	return internal.KindOf(err) == internal.KindConflict
}

// IsPreconditionFailed returns true if the error is the result of a failed
// precondition (HTTP 412), such as creating a database that already exists.
func IsPreconditionFailed(err error) bool {
	return internal.KindOf(err) == internal.KindPreconditionFailed
}

// IsInvalidDBName returns true if the error is the result of local
// database-name validation. No request was sent for such errors.
func IsInvalidDBName(err error) bool {
	return internal.KindOf(err) == internal.KindInvalidDBName
}
