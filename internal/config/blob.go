package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/0x6b/soratun-host/pkg/logger"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/ssm"
	"github.com/aws/aws-sdk-go/service/ssm/ssmiface"
)

// IOError reports that the configuration blob could not be read.
type IOError struct {
	Location string
	Err      error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("read configuration %s: %v", e.Location, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Blob is a point-in-time snapshot of the configuration document. Its
// content is opaque to this process and is never modified after loading.
type Blob struct {
	location string
	data     []byte
}

// NewBlob wraps a copy of data.
func NewBlob(location string, data []byte) *Blob {
	b := make([]byte, len(data))
	copy(b, data)
	return &Blob{location: location, data: b}
}

// Location is where the blob was read from.
func (b *Blob) Location() string {
	return b.location
}

// Bytes returns a copy of the content.
func (b *Blob) Bytes() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// Len returns the content length in bytes.
func (b *Blob) Len() int {
	return len(b.data)
}

// Source reads the full content of a configuration location.
type Source interface {
	Read(ctx context.Context) ([]byte, error)
}

// FileSource reads a file from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Read(context.Context) ([]byte, error) {
	return os.ReadFile(s.Path)
}

// S3Source reads an object from S3.
type S3Source struct {
	Bucket string
	Key    string
	Client s3iface.S3API
}

func (s S3Source) Read(ctx context.Context) ([]byte, error) {
	out, err := s.Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// SSMSource reads a (possibly SecureString) parameter from SSM Parameter Store.
type SSMSource struct {
	Name   string
	Client ssmiface.SSMAPI
}

func (s SSMSource) Read(ctx context.Context) ([]byte, error) {
	out, err := s.Client.GetParameterWithContext(ctx, &ssm.GetParameterInput{
		Name:           aws.String(s.Name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return nil, fmt.Errorf("parameter %s has no value", s.Name)
	}
	return []byte(*out.Parameter.Value), nil
}

var (
	awsSession     *session.Session
	awsSessionErr  error
	awsSessionOnce sync.Once
)

func sharedSession() (*session.Session, error) {
	awsSessionOnce.Do(func() {
		awsSession, awsSessionErr = session.NewSession(&aws.Config{
			Region: aws.String(os.Getenv("AWS_REGION")),
		})
	})
	return awsSession, awsSessionErr
}

// SourceFor returns the Source for a location. Locations prefixed with
// s3:// or ssm:// are read through the AWS SDK, anything else is a file path.
func SourceFor(location string) (Source, error) {
	switch {
	case strings.HasPrefix(location, "s3://"):
		bucket, key, ok := strings.Cut(strings.TrimPrefix(location, "s3://"), "/")
		if !ok || bucket == "" || key == "" {
			return nil, fmt.Errorf("invalid S3 location %q, expected s3://bucket/key", location)
		}
		sess, err := sharedSession()
		if err != nil {
			return nil, err
		}
		return S3Source{Bucket: bucket, Key: key, Client: s3.New(sess)}, nil

	case strings.HasPrefix(location, "ssm://"):
		name := strings.TrimPrefix(location, "ssm://")
		if name == "" {
			return nil, fmt.Errorf("invalid SSM location %q, expected ssm://parameter-name", location)
		}
		if !strings.HasPrefix(name, "/") && strings.Contains(name, "/") {
			name = "/" + name
		}
		sess, err := sharedSession()
		if err != nil {
			return nil, err
		}
		return SSMSource{Name: name, Client: ssm.New(sess)}, nil

	default:
		return FileSource{Path: location}, nil
	}
}

// LoadBlob reads the configuration at location in full. Every failure is
// reported as an *IOError.
func LoadBlob(ctx context.Context, location string) (*Blob, error) {
	if location == "" {
		return nil, &IOError{Location: location, Err: os.ErrNotExist}
	}
	src, err := SourceFor(location)
	if err != nil {
		return nil, &IOError{Location: location, Err: err}
	}
	return LoadBlobFrom(ctx, location, src)
}

// LoadBlobFrom reads the configuration from an explicit source.
func LoadBlobFrom(ctx context.Context, location string, src Source) (*Blob, error) {
	data, err := src.Read(ctx)
	if err != nil {
		return nil, &IOError{Location: location, Err: err}
	}

	blob := &Blob{location: location, data: data}
	logger.Debugf("loaded configuration from %s (%d bytes)", location, blob.Len())
	if logger.IsTraceEnabled() {
		s := Summarize(blob)
		logger.Tracef("configuration summary: json=%t privateKey=%t arcSession=%t", s.JSON, s.HasPrivateKey, s.HasArcSession)
	}
	return blob, nil
}
