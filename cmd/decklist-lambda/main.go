// Package main provides the Lambda entry point for category-filtered deck
// listing.
//
// API Gateway endpoint: given ?category=<name>, queries the catalog
// partition for that category and returns the entries projected to
// question/url pairs, wrapped in a one-element envelope carrying the
// category name. An unknown category yields an empty question_list, not
// an error.
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

	lambdaboot.StartupLog("decklist-lambda", initStart).Log()
}

func main() {
	lambda.Start(handler)
}

func handler(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	rec := metrics.ForStage("decklist")
	defer rec.Flush()
	requestStart := time.Now()

	category := request.QueryStringParameters["category"]
	if category == "" {
		return httpapi.JSON(400, map[string]string{"error": "category parameter is missing in the query parameters"})
	}
	rec.Property("category", category)

	refs, err := entries.EntriesByCategory(ctx, category)
	if err != nil {
		rec.Count("QueryFailure")
		log.Error().Err(err).Str("category", category).Msg("Failed to query catalog")
		return httpapi.JSON(500, map[string]string{"error": "An error occurred while querying the database", "message": err.Error()})
	}

	rec.Metric("EntryCount", float64(len(refs)), metrics.UnitCount)
	rec.Latency("QueryLatencyMs", requestStart)
	return httpapi.JSON(200, []catalog.CategoryDecks{{
		Category:     category,
		QuestionList: refs,
	}})
}
