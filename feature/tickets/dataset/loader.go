package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"ticketsync/core/storage"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
)

// ErrDatasetUnreadable marks every failure to produce records from a dataset.
// It is a fatal precondition: callers abort the run and never retry.
var ErrDatasetUnreadable = errors.New("dataset unreadable")

// rawRecord mirrors the dataset's JSON layout.
type rawRecord struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

// Loader reads datasets from the local filesystem or from object storage.
type Loader struct {
	client storage.Client
}

// NewLoader creates a loader. client may be nil when only local paths are used.
func NewLoader(client storage.Client) *Loader {
	return &Loader{client: client}
}

// Load reads the dataset at location, a file path or an s3://bucket/object URI.
// Any failure, including a single invalid record, returns an error wrapping
// ErrDatasetUnreadable.
func (l *Loader) Load(ctx context.Context, location string) ([]Record, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: no dataset location configured", ErrDatasetUnreadable)
	}

	var (
		reader io.ReadCloser
		err    error
	)
	if storage.IsObjectURI(location) {
		reader, err = l.openObject(ctx, location)
	} else {
		reader, err = os.Open(location)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDatasetUnreadable, location, err)
	}
	defer reader.Close()

	records, err := Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	return records, nil
}

func (l *Loader) openObject(ctx context.Context, location string) (io.ReadCloser, error) {
	if l.client == nil {
		return nil, errors.New("object storage is not configured")
	}
	bucket, object, err := storage.ParseObjectURI(location)
	if err != nil {
		return nil, err
	}

	exists, err := l.client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s not found", bucket)
	}

	return l.client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
}

// Decode parses a JSON array of dataset records and validates every entry.
func Decode(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %w", ErrDatasetUnreadable, err)
	}

	var raws []rawRecord
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("%w: parse: %w", ErrDatasetUnreadable, err)
	}

	records := make([]Record, 0, len(raws))
	for i, raw := range raws {
		rec, err := raw.toRecord(i)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrDatasetUnreadable, i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (raw rawRecord) toRecord(index int) (Record, error) {
	company := strings.TrimSpace(raw.Name)
	email := strings.TrimSpace(raw.Email)
	subject := strings.TrimSpace(raw.Subject)

	switch {
	case company == "":
		return Record{}, errors.New("missing company name")
	case email == "":
		return Record{}, errors.New("missing contact email")
	case subject == "":
		return Record{}, errors.New("missing subject")
	}

	status, err := ParseStatus(raw.Status)
	if err != nil {
		return Record{}, err
	}
	created, err := ParseDate(raw.CreatedAt)
	if err != nil {
		return Record{}, err
	}

	return Record{
		Index:   index,
		Company: company,
		Email:   email,
		Subject: subject,
		Status:  status,
		Created: created,
	}, nil
}
