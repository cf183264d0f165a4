package dynamo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hurby24/Bibliobay-backend/internal/config"
)

type tableAdmin interface {
	CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	UpdateTimeToLive(ctx context.Context, in *dynamodb.UpdateTimeToLiveInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateTimeToLiveOutput, error)
}

// tableSpec is one table Bootstrap owns. ttlAttr is empty for tables without expiry.
type tableSpec struct {
	input   *dynamodb.CreateTableInput
	ttlAttr string
}

func tableSpecs(tables config.DynamoTables) []tableSpec {
	users := hashTable(tables.Users, fieldUserID, fieldEmail, fieldGoogleSub)
	users.GlobalSecondaryIndexes = []types.GlobalSecondaryIndex{
		gsi(indexEmail, fieldEmail),
		gsi(indexGoogleSub, fieldGoogleSub),
	}
	return []tableSpec{
		{input: users},
		{input: hashTable(tables.Sessions, fieldSessionID), ttlAttr: fieldExpiresAt},
		{input: hashTable(tables.EmailVerifications, fieldUserID), ttlAttr: fieldExpiresAt},
	}
}

// Bootstrap creates the users, sessions and email_verifications tables if they don't
// already exist and enables TTL on the expiring ones. Safe to call on every startup.
func Bootstrap(ctx context.Context, client tableAdmin, tables config.DynamoTables) {
	for _, t := range tableSpecs(tables) {
		createTable(ctx, client, t.input)
		if t.ttlAttr != "" {
			enableTTL(ctx, client, *t.input.TableName, t.ttlAttr)
		}
	}
}

// hashTable declares an on-demand table keyed by hashKey. Extra string attributes are
// the GSI keys.
func hashTable(name, hashKey string, indexKeys ...string) *dynamodb.CreateTableInput {
	attrs := []types.AttributeDefinition{
		{AttributeName: aws.String(hashKey), AttributeType: types.ScalarAttributeTypeS},
	}
	for _, k := range indexKeys {
		if k == hashKey {
			continue
		}
		attrs = append(attrs, types.AttributeDefinition{AttributeName: aws.String(k), AttributeType: types.ScalarAttributeTypeS})
	}
	return &dynamodb.CreateTableInput{
		TableName:            aws.String(name),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attrs,
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(hashKey), KeyType: types.KeyTypeHash},
		},
	}
}

// gsi builds a hash-only GSI projecting all attributes.
func gsi(indexName, hashKey string) types.GlobalSecondaryIndex {
	return types.GlobalSecondaryIndex{
		IndexName: aws.String(indexName),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(hashKey), KeyType: types.KeyTypeHash},
		},
		Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
	}
}

func createTable(ctx context.Context, client tableAdmin, input *dynamodb.CreateTableInput) {
	_, err := client.CreateTable(ctx, input)
	var inUse *types.ResourceInUseException
	switch {
	case err == nil:
		slog.Info("created table", "table", *input.TableName)
	case errors.As(err, &inUse):
		// already exists
	default:
		slog.Warn("could not create table", "table", *input.TableName, "err", err)
	}
}

func enableTTL(ctx context.Context, client tableAdmin, tableName, ttlAttr string) {
	_, err := client.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
		TableName: aws.String(tableName),
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			Enabled:       aws.Bool(true),
			AttributeName: aws.String(ttlAttr),
		},
	})
	if err != nil {
		// DynamoDB answers ValidationException when TTL is already on.
		slog.Warn("could not enable TTL", "table", tableName, "err", err)
	}
}
