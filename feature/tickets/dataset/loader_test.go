package dataset

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ticketsync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sampleDataset = `[
  {"name": "Acme", "email": "ops@acme.test", "subject": "Printer on fire", "status": "open", "createdAt": "03/02/2024"},
  {"name": "Globex", "email": "it@globex.test", "subject": "VPN down", "status": "in-progress", "createdAt": "29/02/2024"},
  {"name": "Initech", "email": "bill@initech.test", "subject": "TPS report", "status": "Closed", "createdAt": "31/12/2023"}
]`

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_LoadLocalFile(t *testing.T) {
	path := writeDataset(t, sampleDataset)

	records, err := NewLoader(nil).Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Record{
		Index:   0,
		Company: "Acme",
		Email:   "ops@acme.test",
		Subject: "Printer on fire",
		Status:  StatusOpen,
		Created: Date{Year: 2024, Month: time.February, Day: 3},
	}, records[0])
	assert.Equal(t, StatusInProgress, records[1].Status)
	assert.Equal(t, "2024-02-29", records[1].Created.String())
	assert.Equal(t, StatusClosed, records[2].Status)
	assert.Equal(t, 2, records[2].Index)
}

func TestLoader_EmptyArray(t *testing.T) {
	records, err := NewLoader(nil).Load(context.Background(), writeDataset(t, "[]"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoader_Unreadable(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", `[{"name": "Acme"`},
		{"not an array", `{"name": "Acme"}`},
		{"bad date", `[{"name":"A","email":"a@a","subject":"s","status":"open","createdAt":"2024-01-02"}]`},
		{"impossible date", `[{"name":"A","email":"a@a","subject":"s","status":"open","createdAt":"31/02/2024"}]`},
		{"unknown status", `[{"name":"A","email":"a@a","subject":"s","status":"pending","createdAt":"01/01/2024"}]`},
		{"missing email", `[{"name":"A","email":"","subject":"s","status":"open","createdAt":"01/01/2024"}]`},
		{"missing company", `[{"name":" ","email":"a@a","subject":"s","status":"open","createdAt":"01/01/2024"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(nil).Load(context.Background(), writeDataset(t, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDatasetUnreadable)
		})
	}
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatasetUnreadable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoader_EmptyLocation(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrDatasetUnreadable)
}

func TestLoader_LoadFromObjectStorage(t *testing.T) {
	client := new(mocks.Client)
	ctx := context.Background()

	client.On("BucketExists", ctx, "datasets").Return(true, nil)
	client.On("GetObject", ctx, "datasets", "tickets/2024.json", minio.GetObjectOptions{}).
		Return(io.NopCloser(strings.NewReader(sampleDataset)), nil)

	records, err := NewLoader(client).Load(ctx, "s3://datasets/tickets/2024.json")
	require.NoError(t, err)
	assert.Len(t, records, 3)
	client.AssertExpectations(t)
}

func TestLoader_ObjectStorageFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("bucket missing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "datasets").Return(false, nil)

		_, err := NewLoader(client).Load(ctx, "s3://datasets/t.json")
		assert.ErrorIs(t, err, ErrDatasetUnreadable)
		client.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("get fails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "datasets").Return(true, nil)
		client.On("GetObject", ctx, "datasets", "t.json", minio.GetObjectOptions{}).
			Return(nil, errors.New("access denied"))

		_, err := NewLoader(client).Load(ctx, "s3://datasets/t.json")
		assert.ErrorIs(t, err, ErrDatasetUnreadable)
		assert.Contains(t, err.Error(), "access denied")
	})

	t.Run("no client", func(t *testing.T) {
		_, err := NewLoader(nil).Load(ctx, "s3://datasets/t.json")
		assert.ErrorIs(t, err, ErrDatasetUnreadable)
	})

	t.Run("bad uri", func(t *testing.T) {
		_, err := NewLoader(new(mocks.Client)).Load(ctx, "s3://datasets")
		assert.ErrorIs(t, err, ErrDatasetUnreadable)
	})
}

func TestParseStatus(t *testing.T) {
	tests := map[string]Status{
		"open":        StatusOpen,
		"OPEN":        StatusOpen,
		"in-progress": StatusInProgress,
		"in_progress": StatusInProgress,
		" closed ":    StatusClosed,
	}
	for in, want := range tests {
		got, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseStatus("resolved")
	assert.Error(t, err)
	_, err = ParseStatus("")
	assert.Error(t, err)
}

func TestDate(t *testing.T) {
	d, err := ParseDate("07/08/2024")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.August, Day: 7}, d)
	assert.Equal(t, "2024-08-07", d.String())

	loc := time.FixedZone("UTC+3", 3*60*60)
	assert.Equal(t, "2024-08-07T00:00:00+03:00", d.In(loc).Format(time.RFC3339))

	// 22:30 UTC on the 6th is already the 7th three hours east.
	ts := time.Date(2024, time.August, 6, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, d, DateOf(ts, loc))
	assert.Equal(t, Date{Year: 2024, Month: time.August, Day: 6}, DateOf(ts, nil))

	for _, bad := range []string{"", "7/8", "aa/08/2024", "00/01/2024", "01/13/2024"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}
