package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rehabdelivery/rehab_api/internal/config"
)

// ArchiveService stores uploaded delivery sheets in S3 for audit, signed with
// AWS Signature V4.
type ArchiveService struct {
	bucket          string
	region          string
	accessKeyID     string
	secretAccessKey string
}

// NewArchiveService creates a new archive service.
func NewArchiveService(cfg *config.ArchiveConfig) (*ArchiveService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("archive config is nil")
	}

	return &ArchiveService{
		bucket:          cfg.Bucket,
		region:          cfg.Region,
		accessKeyID:     cfg.AccessKeyID,
		secretAccessKey: cfg.SecretAccessKey,
	}, nil
}

// Upload stores a sheet document under a date-partitioned key and returns its
// URL. With no credentials configured the upload is skipped, keeping local
// development free of AWS setup.
func (s *ArchiveService) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := fmt.Sprintf("sheets/%s/%s%s",
		time.Now().UTC().Format("2006/01/02"),
		uuid.New().String(),
		path.Ext(name),
	)

	if s.accessKeyID == "" || s.secretAccessKey == "" {
		log.Warn().Str("key", key).Msg("Archive credentials not configured - skipping upload")
		return s.ObjectURL(key), nil
	}

	url := s.ObjectURL(key)
	req, err := http.NewRequestWithContext(ctx, "PUT", url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	now := time.Now().UTC()
	amzDate := now.Format("20060102T150405Z")
	dateStamp := now.Format("20060102")
	payloadHash := sha256Hex(data)

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Length", fmt.Sprintf("%d", len(data)))
	req.Header.Set("Host", s.host())
	req.Header.Set("X-Amz-Date", amzDate)
	req.Header.Set("X-Amz-Content-Sha256", payloadHash)
	req.Header.Set("Authorization", s.signRequest(req, payloadHash, amzDate, dateStamp))

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to upload sheet to archive")
		return "", fmt.Errorf("failed to upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		log.Error().
			Str("key", key).
			Int("status", resp.StatusCode).
			Str("response", string(body)).
			Msg("Sheet archive upload failed")
		return "", fmt.Errorf("archive upload failed: %s", string(body))
	}

	log.Info().Str("key", key).Msg("Sheet archived")
	return url, nil
}

// signRequest creates the AWS Signature V4 authorization header.
func (s *ArchiveService) signRequest(req *http.Request, payloadHash, amzDate, dateStamp string) string {
	service := "s3"

	canonicalURI := req.URL.Path
	if canonicalURI == "" {
		canonicalURI = "/"
	}

	signedHeaders := []string{"content-type", "host", "x-amz-content-sha256", "x-amz-date"}
	sort.Strings(signedHeaders)

	var canonicalHeaders strings.Builder
	for _, h := range signedHeaders {
		canonicalHeaders.WriteString(strings.ToLower(h))
		canonicalHeaders.WriteString(":")
		canonicalHeaders.WriteString(strings.TrimSpace(req.Header.Get(h)))
		canonicalHeaders.WriteString("\n")
	}

	signedHeadersStr := strings.Join(signedHeaders, ";")

	canonicalRequest := fmt.Sprintf("%s\n%s\n%s\n%s\n%s\n%s",
		req.Method,
		canonicalURI,
		"",
		canonicalHeaders.String(),
		signedHeadersStr,
		payloadHash,
	)

	algorithm := "AWS4-HMAC-SHA256"
	credentialScope := fmt.Sprintf("%s/%s/%s/aws4_request", dateStamp, s.region, service)
	stringToSign := fmt.Sprintf("%s\n%s\n%s\n%s",
		algorithm,
		amzDate,
		credentialScope,
		sha256Hex([]byte(canonicalRequest)),
	)

	kDate := hmacSHA256([]byte("AWS4"+s.secretAccessKey), []byte(dateStamp))
	kRegion := hmacSHA256(kDate, []byte(s.region))
	kService := hmacSHA256(kRegion, []byte(service))
	kSigning := hmacSHA256(kService, []byte("aws4_request"))

	signature := hex.EncodeToString(hmacSHA256(kSigning, []byte(stringToSign)))

	return fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		algorithm,
		s.accessKeyID,
		credentialScope,
		signedHeadersStr,
		signature,
	)
}

// ObjectURL returns the public URL for an archived object.
func (s *ArchiveService) ObjectURL(key string) string {
	return fmt.Sprintf("https://%s/%s", s.host(), key)
}

func (s *ArchiveService) host() string {
	return fmt.Sprintf("%s.s3.%s.amazonaws.com", s.bucket, s.region)
}

// sha256Hex computes a SHA256 hash and returns the hex string.
func sha256Hex(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// hmacSHA256 computes HMAC-SHA256.
func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
