package dynamo

import (
	"context"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// fakeDynamo implements DynamoAPI, capturing inputs and replaying canned outputs.
type fakeDynamo struct {
	getInput  *dynamodb.GetItemInput
	getOutput *dynamodb.GetItemOutput
	getErr    error

	putInput *dynamodb.PutItemInput
	putErr   error

	queryInputs []*dynamodb.QueryInput
	queryOutput *dynamodb.QueryOutput
	// queryOutputs, when set, is replayed across successive calls.
	queryOutputs []*dynamodb.QueryOutput
	queryErr     error

	updateInput *dynamodb.UpdateItemInput
	updateErr   error

	transactInput *dynamodb.TransactWriteItemsInput
	transactErr   error
}

func (f *fakeDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.getInput = params
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.getOutput != nil {
		return f.getOutput, nil
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fakeDynamo) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putInput = params
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queryInputs = append(f.queryInputs, params)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if len(f.queryOutputs) > 0 {
		out := f.queryOutputs[0]
		f.queryOutputs = f.queryOutputs[1:]
		return out, nil
	}
	if f.queryOutput != nil {
		return f.queryOutput, nil
	}
	return &dynamodb.QueryOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updateInput = params
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.transactInput = params
	if f.transactErr != nil {
		return nil, f.transactErr
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func (f *fakeDynamo) lastQuery() *dynamodb.QueryInput {
	if len(f.queryInputs) == 0 {
		return nil
	}
	return f.queryInputs[len(f.queryInputs)-1]
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
