// internal/dataset/source.go
package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Source hands out dataset files by name. The default is a local directory;
// an S3 source covers deployments where the CSV extracts land in a bucket.
type Source interface {
	Open(filename string) (io.ReadCloser, error)
}

type DirSource struct {
	Root string
}

func NewDirSource(root string) *DirSource {
	return &DirSource{Root: root}
}

func (s *DirSource) Open(filename string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.Root, filename))
}

type S3Source struct {
	client *s3.S3
	bucket string
	prefix string
}

// NewS3Source builds a source reading objects at <prefix>/<filename> from the
// given bucket. Static credentials are optional; an empty access key falls
// back to the default AWS credential chain.
func NewS3Source(region, bucket, prefix, accessKey, secretKey string) (*S3Source, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if accessKey != "" {
		cfg.Credentials = credentials.NewStaticCredentials(accessKey, secretKey, "")
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Source{
		client: s3.New(sess),
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (s *S3Source) Open(filename string) (io.ReadCloser, error) {
	key := filename
	if s.prefix != "" {
		key = s.prefix + "/" + filename
	}

	out, err := s.client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch s3://%s/%s: %w", s.bucket, key, err)
	}

	return out.Body, nil
}
