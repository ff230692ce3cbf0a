package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/feb027/melon-ai-sub001/internal/blob"
)

const artifactContentType = "application/pdf"

// Publisher names the rendered artifact, uploads it, and mints a
// signed retrieval link.
type Publisher struct {
	store      blob.Store
	presignTTL int
	now        func() time.Time
}

// NewPublisher creates a new Publisher. presignTTL is the signed link
// validity in seconds.
func NewPublisher(store blob.Store, presignTTL int) *Publisher {
	return &Publisher{
		store:      store,
		presignTTL: presignTTL,
		now:        time.Now,
	}
}

// Publish uploads the document and returns the signed link plus the
// generated artifact name. The upload never overwrites an existing
// object; a presign failure leaves the uploaded artifact in place.
func (p *Publisher) Publish(ctx context.Context, document []byte) (*SignedLink, string, error) {
	fileName := fmt.Sprintf("analytics-report-%d.pdf", p.now().UnixMilli())

	opts := blob.PutOptions{
		ContentType:  artifactContentType,
		CacheControl: fmt.Sprintf("max-age=%d", p.presignTTL),
		Overwrite:    false,
	}
	if _, err := p.store.PutObject(ctx, fileName, document, opts); err != nil {
		if isMIMERejection(err) {
			return nil, "", NewError(CodeUploadError, "Report upload was rejected because of its MIME type").
				WithDetails(fmt.Sprintf("Configure the storage bucket to accept %s uploads", artifactContentType)).
				WithCause(err)
		}
		return nil, "", NewError(CodeUploadError, "Failed to upload report").
			WithDetails(err.Error()).
			WithCause(err)
	}

	url, err := p.store.PresignGet(ctx, fileName, p.presignTTL)
	if err != nil {
		return nil, "", NewError(CodeSignedURLError, "Failed to create download link for report").
			WithDetails(err.Error()).
			WithCause(err)
	}

	return &SignedLink{
		URL:       url,
		ExpiresIn: p.presignTTL,
		ExpiresAt: p.now().Add(time.Duration(p.presignTTL) * time.Second),
	}, fileName, nil
}

// isMIMERejection classifies upload failures caused by the bucket
// refusing the artifact's content type.
func isMIMERejection(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "mime") ||
		strings.Contains(msg, "content-type") ||
		strings.Contains(msg, "content type")
}
