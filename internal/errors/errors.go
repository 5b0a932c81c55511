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

// Package errors provides the error type shared by the transport and
// operation layers, and helpers to extract the embedded HTTP status and
// error kind from arbitrary error chains.
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"

	pkgerrs "github.com/pkg/errors"
)

// Kind classifies an error into one of the conditions a caller can act on.
// It is a closed set: every HTTP-level failure maps to exactly one kind.
type Kind int

// The complete set of error kinds.
const (
	// KindUnknown is the zero Kind, carried by errors that did not pass
	// through response classification.
	KindUnknown Kind = iota
	// KindInvalidDBName indicates a database name rejected by local
	// validation. No request was sent.
	KindInvalidDBName
	// KindDatabaseNotFound indicates a 404 whose reason identifies a
	// missing database file.
	KindDatabaseNotFound
	// KindDocumentNotFound indicates a 404 for a missing document.
	KindDocumentNotFound
	// KindAttachmentNotFound indicates a 404 whose reason identifies a
	// missing attachment.
	KindAttachmentNotFound
	// KindConflict indicates a 409 document update conflict.
	KindConflict
	// KindPreconditionFailed indicates a 412, such as creating a database
	// that already exists.
	KindPreconditionFailed
	// KindServerError covers every other status >= 400.
	KindServerError
	// KindNetwork indicates a connection-level failure (DNS, refused
	// connection, timeout) that never produced an HTTP response.
	KindNetwork
)

var kindNames = map[Kind]string{
	KindUnknown:            "unknown",
	KindInvalidDBName:      "invalid_database_name",
	KindDatabaseNotFound:   "database_not_found",
	KindDocumentNotFound:   "document_not_found",
	KindAttachmentNotFound: "attachment_not_found",
	KindConflict:           "conflict",
	KindPreconditionFailed: "precondition_failed",
	KindServerError:        "server_error",
	KindNetwork:            "network_error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error bundles an error message or wrapped error with an HTTP status code
// and a classification kind.
type Error struct {
	// Status is the HTTP status code associated with this error.
	Status int

	// Kind is the classified error condition.
	Kind Kind

	// Message is the error message. Ignored when Err is set.
	Message string

	// Err is the originating error, if any.
	Err error
}

var (
	_ error                       = (*Error)(nil)
	_ interface{ Unwrap() error } = (*Error)(nil)
)

func (e *Error) Error() string {
	if e.Err == nil {
		return e.msg()
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) msg() string {
	if e.Message == "" {
		return http.StatusText(e.Status)
	}
	return e.Message
}

// Unwrap satisfies the errors wrapper interface.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the embedded status code.
func (e *Error) HTTPStatus() int {
	return e.Status
}

// ErrorKind returns the embedded kind.
func (e *Error) ErrorKind() Kind {
	return e.Kind
}

type statusCoder interface {
	HTTPStatus() int
}

type kinder interface {
	ErrorKind() Kind
}

// HTTPStatus returns the HTTP status code embedded in err or any error it
// wraps. If no status is found, 500 is assumed, or 0 for a nil error.
func HTTPStatus(err error) int {
	if err == nil {
		return 0
	}
	var sc statusCoder
	if stderrs.As(err, &sc) {
		return sc.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// KindOf returns the Kind embedded in err or any error it wraps, or
// KindUnknown if none is found.
func KindOf(err error) Kind {
	var k kinder
	if stderrs.As(err, &k) {
		return k.ErrorKind()
	}
	return KindUnknown
}

// Wrap annotates err with msg, preserving any embedded status and kind.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Status: HTTPStatus(err),
		Kind:   KindOf(err),
		Err:    pkgerrs.Wrap(err, msg),
	}
}

// Wrapf annotates err with a formatted message, preserving any embedded
// status and kind.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		Status: HTTPStatus(err),
		Kind:   KindOf(err),
		Err:    pkgerrs.Wrapf(err, format, args...),
	}
}
