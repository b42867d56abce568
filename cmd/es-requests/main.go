// Package main is the entry point for the es-requests Lambda function.
//
// The function backs a CloudFormation custom resource. On Create and Update
// it sends the resource's request list to the domain named by DOMAIN,
// signed for REGION, and reports the outcome to CloudFormation.
package main

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/imamik/searchprov/internal/config"
	"github.com/imamik/searchprov/internal/lifecycle"
	"github.com/imamik/searchprov/internal/logging"
)

func main() {
	v := config.NewViper()
	logger, flush := logging.New(logging.Options{Debug: v.GetBool(config.KeyDebug), Format: logging.FormatJSON})
	defer flush()

	timeouts := config.LoadTimeouts(v)
	callbackClient := &http.Client{Timeout: timeouts.Callback}

	handler := lifecycle.NewHandler(
		func(ctx context.Context) (*config.Config, error) {
			return config.Load(ctx, v)
		},
		lifecycle.DefaultRunnerFactory,
		lifecycle.WithLogger(logger),
		lifecycle.WithReportTimeout(timeouts.Callback),
		lifecycle.WithCallbackReporter(lifecycle.NewCallbackReporter(callbackClient,
			lifecycle.WithCallbackLogger(logger),
			lifecycle.WithLogStream(lambdacontext.LogStreamName))),
	)

	lambda.Start(func(ctx context.Context, ev lifecycle.Event) error {
		defer flush()
		return handler.Handle(ctx, ev)
	})
}
