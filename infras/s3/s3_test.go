package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"skybook/config"
)

func TestObjectKeyFromURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.External.S3.PublicDomain = "https://cdn.skybook.test/"
	cfg.External.S3.APIEndpoint = "https://storage.skybook.test"
	cfg.External.S3.BucketName = "assets"

	svc := &s3Impl{Config: cfg}

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "public url round trips",
			url:  svc.publicURL("banner/summer.png"),
			want: "banner/summer.png",
		},
		{
			name: "path style endpoint",
			url:  "https://storage.skybook.test/assets/banner/winter.jpg",
			want: "banner/winter.jpg",
		},
		{
			name: "other bucket",
			url:  "https://storage.skybook.test/private/banner/winter.jpg",
			want: "",
		},
		{
			name: "foreign host",
			url:  "https://images.example.com/banner.png",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.ObjectKeyFromURL(tt.url))
		})
	}
}

func TestObjectKeyFromURL_NoPublicDomain(t *testing.T) {
	svc := &s3Impl{Config: &config.Config{}}

	assert.Empty(t, svc.ObjectKeyFromURL("/banner/summer.png"))
}
