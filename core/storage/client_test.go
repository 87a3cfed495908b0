package storage_test

import (
	"testing"

	"ticketsync/core/storage"

	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
			Bucket:    "test-bucket",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestParseObjectURI(t *testing.T) {
	tests := []struct {
		name       string
		location   string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"Simple", "s3://datasets/tickets.json", "datasets", "tickets.json", false},
		{"Nested", "s3://datasets/2024/q1/tickets.json", "datasets", "2024/q1/tickets.json", false},
		{"DoubleSlash", "s3://datasets//tickets.json", "datasets", "tickets.json", false},
		{"NoObject", "s3://datasets", "", "", true},
		{"EmptyObject", "s3://datasets/", "", "", true},
		{"NoBucket", "s3:///tickets.json", "", "", true},
		{"LocalPath", "./tickets.json", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, object, err := storage.ParseObjectURI(tt.location)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantObject, object)
		})
	}
}

func TestIsObjectURI(t *testing.T) {
	assert.True(t, storage.IsObjectURI("s3://bucket/key"))
	assert.True(t, storage.IsObjectURI("  s3://bucket/key"))
	assert.False(t, storage.IsObjectURI("/data/tickets.json"))
	assert.False(t, storage.IsObjectURI("https://bucket/key"))
}
