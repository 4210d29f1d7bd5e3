// Package main provides the Lambda entry point for category listing.
//
// API Gateway endpoint returning the distinct categories currently present
// in the catalog as a JSON array. Never fails on an empty catalog — an
// empty array is a valid listing.
//
// Memory: 128 MB
// Timeout: 10 seconds
package main

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/mpark/ankimozzi/internal/catalog"
	"github.com/mpark/ankimozzi/internal/httpapi"
	"github.com/mpark/ankimozzi/internal/lambdaboot"
	"github.com/mpark/ankimozzi/internal/logging"
	"github.com/mpark/ankimozzi/internal/metrics"
)

// Collaborator clients initialized at cold start.
var entries catalog.Catalog

func init() {
	initStart := time.Now()
	logging.Init()

	awsClients := lambdaboot.InitAWS()
	entries = lambdaboot.InitCatalog(awsClients.Config, "CATALOG_TABLE_NAME")

	lambdaboot.StartupLog("categories-lambda", initStart).Log()
}

func main() {
	lambda.Start(handler)
}

func handler(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	rec := metrics.ForStage("categories")
	defer rec.Flush()
	requestStart := time.Now()

	categories, err := entries.Categories(ctx)
	if err != nil {
		rec.Count("QueryFailure")
		log.Error().Err(err).Msg("Failed to list categories")
		return httpapi.JSON(500, map[string]string{"error": "An error occurred while querying the database", "message": err.Error()})
	}

	rec.Metric("CategoryCount", float64(len(categories)), metrics.UnitCount)
	rec.Latency("QueryLatencyMs", requestStart)
	return httpapi.JSON(200, categories)
}
