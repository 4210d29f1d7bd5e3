// Package main provides the Lambda entry point for presigned upload URLs.
//
// API Gateway endpoint: POST {"fileName": "<name>"} returns a presigned
// PutObject URL for the media intake bucket, valid for one hour, with the
// run's correlation id attached as signed metadata. The front end uploads
// directly to S3 through the URL; the bucket event then starts the
// transcription stage.
//
// Memory: 128 MB
// Timeout: 10 seconds
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/mpark/ankimozzi/internal/artifact"
	"github.com/mpark/ankimozzi/internal/httpapi"
	"github.com/mpark/ankimozzi/internal/lambdaboot"
	"github.com/mpark/ankimozzi/internal/logging"
	"github.com/mpark/ankimozzi/internal/metrics"
	"github.com/mpark/ankimozzi/internal/pipeline"
	"github.com/mpark/ankimozzi/internal/transcription"
)

// urlTTL is how long an issued upload URL stays valid.
const urlTTL = time.Hour

// Collaborator clients initialized at cold start.
var (
	presigner   *artifact.Presigner
	mediaBucket string
)

func init() {
	initStart := time.Now()
	logging.Init()

	awsClients := lambdaboot.InitAWS()
	presigner = lambdaboot.InitPresigner(awsClients.Config)
	mediaBucket = lambdaboot.RequireBucket("MEDIA_BUCKET_NAME")

	lambdaboot.StartupLog("upload-url-lambda", initStart).
		S3Bucket("media", mediaBucket).
		Config("urlTTL", urlTTL.String()).
		Log()
}

func main() {
	lambda.Start(handler)
}

type uploadRequest struct {
	FileName string `json:"fileName"`
}

type uploadResponse struct {
	UploadURL     string `json:"uploadUrl"`
	CorrelationID string `json:"correlationId"`
}

func handler(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	rec := metrics.ForStage("upload-url")
	defer rec.Flush()
	requestStart := time.Now()

	fileName, contentType, err := parseRequest(request.Body)
	if err != nil {
		rec.Count("BadRequest")
		return httpapi.JSON(400, map[string]string{"error": err.Error()})
	}
	rec.Property("fileName", fileName)

	ref := pipeline.ObjectRef{Bucket: mediaBucket, Key: fileName}
	correlationID := pipeline.DeriveCorrelationID(transcription.JobName(fileName))

	url, err := presigner.UploadURL(ctx, ref, contentType, correlationID, urlTTL)
	if err != nil {
		rec.Count("PresignFailure")
		log.Error().Err(err).Str("fileName", fileName).Msg("Failed to presign upload URL")
		return httpapi.JSON(500, map[string]string{"error": err.Error()})
	}

	rec.Count("URLsIssued")
	rec.Latency("PresignLatencyMs", requestStart)
	log.Info().Str("fileName", fileName).Str("correlationId", correlationID).Msg("Upload URL issued")
	return httpapi.JSON(200, uploadResponse{UploadURL: url, CorrelationID: correlationID})
}

// parseRequest decodes the request body and resolves the upload content
// type, rejecting media kinds the pipeline cannot transcribe.
func parseRequest(body string) (fileName, contentType string, err error) {
	if body == "" {
		return "", "", errors.New("File name is required")
	}
	var req uploadRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return "", "", fmt.Errorf("invalid request body: %v", err)
	}
	if req.FileName == "" {
		return "", "", errors.New("File name is required")
	}
	contentType, err = transcription.ContentType(req.FileName)
	if err != nil {
		return "", "", err
	}
	return req.FileName, contentType, nil
}
