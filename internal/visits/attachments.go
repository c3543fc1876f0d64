package visits

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/elmarkeb/clinicdesk/pkg/logging"
)

// Attachment is one uploaded file tied to a visit, an x-ray or a
// scanned report.
type Attachment struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	LastModified string `json:"lastModified,omitempty"`
}

type s3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// AttachmentStore lists visit attachments from the clinic's bucket.
// Objects live under visits/{patientID}/{appointmentID}/.
type AttachmentStore struct {
	client s3API
	bucket string
	logger *logging.Logger
}

// NewAttachmentStore builds a store over the given bucket. An empty
// bucket name returns nil; callers treat a nil store as "no
// attachments configured".
func NewAttachmentStore(client s3API, bucket string, logger *logging.Logger) *AttachmentStore {
	if bucket == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AttachmentStore{client: client, bucket: bucket, logger: logger}
}

// List returns the attachments stored for one visit. A nil store
// returns nothing.
func (s *AttachmentStore) List(ctx context.Context, patientID, appointmentID string) ([]Attachment, error) {
	if s == nil {
		return nil, nil
	}

	prefix := fmt.Sprintf("visits/%s/%s/", patientID, appointmentID)
	var out []Attachment
	var token *string
	for {
		resp, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("visits: list attachments: %w", err)
		}
		for _, obj := range resp.Contents {
			a := Attachment{
				Key:  aws.ToString(obj.Key),
				Name: path.Base(aws.ToString(obj.Key)),
				Size: aws.ToInt64(obj.Size),
			}
			if obj.LastModified != nil {
				a.LastModified = obj.LastModified.UTC().Format(time.RFC3339)
			}
			out = append(out, a)
		}
		if resp.NextContinuationToken == nil {
			break
		}
		token = resp.NextContinuationToken
	}
	return out, nil
}
