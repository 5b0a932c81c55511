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
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/sofalabs/sofa/chttp"
	internal "github.com/sofalabs/sofa/internal/errors"
)

// Attachment represents a file attachment on a document.
type Attachment struct {
	Filename    string
	ContentType string
	Digest      string
	Size        int64

	// Content is the attachment body. The caller is responsible for
	// closing it when non-nil.
	Content io.ReadCloser
}

// AttachmentMeta describes an attachment stub, as stored in a document's
// _attachments field.
type AttachmentMeta struct {
	ContentType string `json:"content_type"`
	Digest      string `json:"digest"`
	Size        int64  `json:"length"`
	RevPos      int64  `json:"revpos"`
	Stub        bool   `json:"stub"`
}

// PutAttachment uploads the supplied content as an attachment to the
// specified document, and returns the document's new revision.
func (d *DB) PutAttachment(ctx context.Context, docID, rev string, att *Attachment, options ...Option) (newRev string, err error) {
	if d.err != nil {
		return "", d.err
	}
	if docID == "" {
		return "", missingArg("docID")
	}
	if att == nil {
		return "", missingArg("att")
	}
	if att.Filename == "" {
		return "", missingArg("att.Filename")
	}
	if att.Content == nil {
		return "", missingArg("att.Content")
	}

	opts := map[string]interface{}{}
	allOptions(options).Apply(opts)
	if rev != "" {
		opts["rev"] = rev
	}
	query, err := optionsToParams(opts)
	if err != nil {
		return "", err
	}
	chttpOpts := &chttp.Options{
		Body:        att.Content,
		ContentType: att.ContentType,
		Query:       query,
	}
	var response struct {
		Rev string `json:"rev"`
	}
	err = d.client.DoJSON(ctx, http.MethodPut, d.path(chttp.EncodeDocID(docID)+"/"+url.PathEscape(att.Filename)), chttpOpts, &response)
	if err != nil {
		return "", err
	}
	return response.Rev, nil
}

// GetAttachment fetches an attachment. The returned attachment's Content
// must be closed by the caller.
func (d *DB) GetAttachment(ctx context.Context, docID, filename string, options ...Option) (*Attachment, error) {
	resp, err := d.fetchAttachment(ctx, http.MethodGet, docID, filename, options)
	if err != nil {
		return nil, err
	}
	return decodeAttachment(filename, resp)
}

// AttachmentMeta fetches an attachment's metadata with a HEAD request. The
// returned attachment has a nil Content.
func (d *DB) AttachmentMeta(ctx context.Context, docID, filename string, options ...Option) (*Attachment, error) {
	resp, err := d.fetchAttachment(ctx, http.MethodHead, docID, filename, options)
	if err != nil {
		return nil, err
	}
	_ = resp.Body.Close()
	att, err := decodeAttachment(filename, resp)
	if err != nil {
		return nil, err
	}
	att.Content = nil
	return att, nil
}

func (d *DB) fetchAttachment(ctx context.Context, method, docID, filename string, options []Option) (*http.Response, error) {
	if d.err != nil {
		return nil, d.err
	}
	if docID == "" {
		return nil, missingArg("docID")
	}
	if filename == "" {
		return nil, missingArg("filename")
	}
	chttpOpts, err := d.chttpOpts(options)
	if err != nil {
		return nil, err
	}
	chttpOpts.Accept = "*/*"
	resp, err := d.client.DoReq(ctx, method, d.path(chttp.EncodeDocID(docID)+"/"+url.PathEscape(filename)), chttpOpts)
	if err != nil {
		return nil, err
	}
	return resp, chttp.ResponseError(resp)
}

func decodeAttachment(filename string, resp *http.Response) (*Attachment, error) {
	cType := resp.Header.Get("Content-Type")
	if _, ok := resp.Header["Content-Type"]; !ok {
		return nil, &internal.Error{Status: http.StatusBadGateway, Err: errors.New("no Content-Type in response")}
	}
	digest, ok := chttp.ETag(resp)
	if !ok {
		return nil, &internal.Error{Status: http.StatusBadGateway, Err: errors.New("ETag header not found")}
	}
	return &Attachment{
		Filename:    filename,
		ContentType: cType,
		Digest:      digest,
		Size:        resp.ContentLength,
		Content:     resp.Body,
	}, nil
}

// DeleteAttachment removes an attachment from a document, and returns the
// document's new revision.
func (d *DB) DeleteAttachment(ctx context.Context, docID, rev, filename string, options ...Option) (newRev string, err error) {
	if d.err != nil {
		return "", d.err
	}
	if docID == "" {
		return "", missingArg("docID")
	}
	if rev == "" {
		return "", missingArg("rev")
	}
	if filename == "" {
		return "", missingArg("filename")
	}

	opts := map[string]interface{}{}
	allOptions(options).Apply(opts)
	opts["rev"] = rev
	query, err := optionsToParams(opts)
	if err != nil {
		return "", err
	}
	var response struct {
		Rev string `json:"rev"`
	}
	err = d.client.DoJSON(ctx, http.MethodDelete, d.path(chttp.EncodeDocID(docID)+"/"+url.PathEscape(filename)), &chttp.Options{Query: query}, &response)
	if err != nil {
		return "", err
	}
	return response.Rev, nil
}

// ListAttachments returns the attachment stubs of a document, keyed by
// filename.
func (d *DB) ListAttachments(ctx context.Context, docID string, options ...Option) (map[string]AttachmentMeta, error) {
	var doc struct {
		Attachments map[string]AttachmentMeta `json:"_attachments"`
	}
	if _, err := d.Get(ctx, docID, &doc, options...); err != nil {
		return nil, err
	}
	return doc.Attachments, nil
}
