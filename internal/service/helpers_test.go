package service_test

import (
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"docinsight/internal/extractor"
	"docinsight/internal/pipeline"
	"docinsight/internal/preparer"
	"docinsight/mocks"
)

func testPipeline() *pipeline.Pipeline {
	return pipeline.New(extractor.NewRegistry(extractor.Config{}), preparer.HeuristicEstimator{}, zap.NewNop())
}

func resolverFor(client *mocks.MockCompletionClient) *mocks.MockClientResolver {
	r := new(mocks.MockClientResolver)
	r.On("Completion", mock.Anything).Return(client, nil)
	return r
}

func acceptingRepo() *mocks.MockAnalysisRecordRepo {
	repo := new(mocks.MockAnalysisRecordRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	return repo
}
